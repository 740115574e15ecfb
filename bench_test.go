package contig

import (
	"testing"
)

// BenchmarkConstruct compares building a 3-D array with two allocations
// against one allocation per row.
func BenchmarkConstruct(b *testing.B) {
	const x, y, z = 16, 16, 16

	b.Run("Untyped/Contig", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			a, err := Construct([]int{x, y, z}, 8)
			if err != nil {
				b.Fatal(err)
			}
			a.Destroy()
		}
	})

	b.Run("Untyped/Arena", func(b *testing.B) {
		arena := NewArena(0)
		al := NewAllocator(WithProvider(arena))
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			a, err := al.Construct([]int{x, y, z}, 8)
			if err != nil {
				b.Fatal(err)
			}
			a.Destroy()
			arena.Reset()
		}
	})

	b.Run("Typed/Contig", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if _, err := New3[float64](x, y, z); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("Typed/Builtin", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			m := make([][][]float64, x)
			for p := range m {
				m[p] = make([][]float64, y)
				for q := range m[p] {
					m[p][q] = make([]float64, z)
				}
			}
		}
	})
}

// BenchmarkScan sums every element through nested and flat access.
func BenchmarkScan(b *testing.B) {
	m, err := New3[float64](32, 32, 32)
	if err != nil {
		b.Fatal(err)
	}

	b.Run("Nested", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			var sum float64
			for p := range m {
				for q := range m[p] {
					for _, v := range m[p][q] {
						sum += v
					}
				}
			}
			_ = sum
		}
	})

	b.Run("Flat", func(b *testing.B) {
		flat := FlattenOf[float64](m, 3)
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			var sum float64
			for _, v := range flat {
				sum += v
			}
			_ = sum
		}
	})
}

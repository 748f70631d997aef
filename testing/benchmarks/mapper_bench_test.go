package benchmarks

import (
	"context"
	"fmt"
	"testing"

	"github.com/zoobzio/transit"
	transittest "github.com/zoobzio/transit/testing"
	"github.com/zoobzio/transit/yaml"
)

func BenchmarkMapper_Map_Flat(b *testing.B) {
	f := transittest.PetFactory(b)
	m, _ := transit.GetMapper[transittest.Dog, transittest.DogDTO](f)
	dog := transittest.Dog{Name: "wang", Age: 3, Height: 56}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = m.Map(context.Background(), dog)
	}
}

func BenchmarkMapper_Map_NestedList(b *testing.B) {
	f := transittest.PetFactory(b)
	m, _ := transit.GetMapper[transittest.Cat, transittest.CatDTO](f)
	cat := transittest.Wang()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = m.Map(context.Background(), cat)
	}
}

func BenchmarkMapper_Map_ExplicitPaths(b *testing.B) {
	f := transit.NewFactory()
	_ = transit.Define[transittest.Cat, transittest.CatDTO](f).
		Field("dog{height}", "dog{height_new}").
		Field("dog{name}", "dog{name}").
		Field("dog{age}", "dog{age}").
		ByDefault().
		Register()
	m, _ := transit.GetMapper[transittest.Cat, transittest.CatDTO](f)
	cat := transittest.Wang()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = m.Map(context.Background(), cat)
	}
}

func BenchmarkFactory_Map(b *testing.B) {
	f := transittest.PetFactory(b)
	cat := transittest.Wang()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var dto transittest.CatDTO
		_ = f.Map(context.Background(), &cat, &dto)
	}
}

func BenchmarkMapSlice(b *testing.B) {
	f := transittest.PetFactory(b)
	m, _ := transit.GetMapper[transittest.Dog, transittest.DogDTO](f)

	dogs := make([]transittest.Dog, 1000)
	for i := range dogs {
		dogs[i] = transittest.Dog{Name: fmt.Sprintf("dog-%d", i), Age: i % 15, Height: 40 + i%30}
	}

	for _, limit := range []int{1, 8} {
		b.Run(fmt.Sprintf("limit=%d", limit), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_, _ = transit.MapSlice(context.Background(), m, dogs, limit)
			}
		})
	}
}

func BenchmarkGetMapper_Compile(b *testing.B) {
	for i := 0; i < b.N; i++ {
		f := transittest.PetFactory(b)
		_, _ = transit.GetMapper[transittest.Cat, transittest.CatDTO](f)
	}
}

func BenchmarkFactory_Load(b *testing.B) {
	data := []byte(transittest.PetDocument)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f := transit.NewFactory()
		transittest.DeclarePets(f)
		_ = f.Load(context.Background(), yaml.New(), data)
	}
}

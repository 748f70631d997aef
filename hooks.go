package transit

import "fmt"

// CustomMapper adds hand-written logic to a class map. It runs after the
// class map's rules, in the direction being mapped. The value being read is
// passed as-is and the value being written as a pointer, so for a class map
// from A to B, MapAToB receives (A, *B) and MapBToA receives (B, *A).
type CustomMapper interface {
	MapAToB(a, b any) error
	MapBToA(b, a any) error
}

// AfterMapper is implemented by destination types that complete themselves
// once every rule has been applied, for example to derive a field from
// others. AfterMap is called on a pointer to the destination.
type AfterMapper interface {
	AfterMap() error
}

// Customize attaches a custom mapper to the class map being built.
func (b *Builder) Customize(c CustomMapper) *Builder {
	b.classMap.Custom = c
	return b
}

type customFuncs[A, B any] struct {
	aToB func(a A, b *B) error
	bToA func(b B, a *A) error
}

// CustomFuncs builds a CustomMapper from typed functions. Either function
// may be nil to do nothing in that direction.
//
//	transit.Define[Order, OrderDTO](f).
//	    ByDefault().
//	    Customize(transit.CustomFuncs(func(o Order, dto *OrderDTO) error {
//	        dto.Total = o.Net + o.Tax
//	        return nil
//	    }, nil))
func CustomFuncs[A, B any](aToB func(a A, b *B) error, bToA func(b B, a *A) error) CustomMapper {
	return customFuncs[A, B]{aToB: aToB, bToA: bToA}
}

func (c customFuncs[A, B]) MapAToB(a, b any) error {
	if c.aToB == nil {
		return nil
	}
	av, aok := a.(A)
	bv, bok := b.(*B)
	if !aok || !bok {
		return fmt.Errorf("custom mapper expects (%T, %T), got (%T, %T)", *new(A), new(B), a, b)
	}
	return c.aToB(av, bv)
}

func (c customFuncs[A, B]) MapBToA(b, a any) error {
	if c.bToA == nil {
		return nil
	}
	bv, bok := b.(B)
	av, aok := a.(*A)
	if !aok || !bok {
		return fmt.Errorf("custom mapper expects (%T, %T), got (%T, %T)", *new(B), new(A), b, a)
	}
	return c.bToA(bv, av)
}

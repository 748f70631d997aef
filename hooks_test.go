package transit

import (
	"errors"
	"strings"
	"testing"
)

type invoice struct {
	Net int `transit:"net"`
	Tax int `transit:"tax"`
}

type invoiceDTO struct {
	Net   int `transit:"net"`
	Tax   int `transit:"tax"`
	Total int `transit:"total"`
}

type labelled struct {
	First string `transit:"first"`
	Last  string `transit:"last"`
	Full  string `transit:"-"`
}

func (l *labelled) AfterMap() error {
	if l.First == "" {
		return errors.New("first name is required")
	}
	l.Full = l.First + " " + l.Last
	return nil
}

type person struct {
	First string `transit:"first"`
	Last  string `transit:"last"`
}

func TestCustomFuncs_Forward(t *testing.T) {
	f := NewFactory()
	err := Define[invoice, invoiceDTO](f).
		ByDefault().
		Customize(CustomFuncs(func(in invoice, out *invoiceDTO) error {
			out.Total = in.Net + in.Tax
			return nil
		}, nil)).
		Register()
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	got, err := mustGetMapper[invoice, invoiceDTO](t, f).Map(t.Context(), invoice{Net: 100, Tax: 20})
	if err != nil {
		t.Fatalf("Map() error: %v", err)
	}
	want := invoiceDTO{Net: 100, Tax: 20, Total: 120}
	if got != want {
		t.Errorf("Map() = %+v, want %+v", got, want)
	}
}

func TestCustomFuncs_Reverse(t *testing.T) {
	f := NewFactory()
	err := Define[invoice, invoiceDTO](f).
		ByDefault().
		Exclude("tax").
		Customize(CustomFuncs(nil, func(in invoiceDTO, out *invoice) error {
			out.Tax = in.Total - in.Net
			return nil
		})).
		Register()
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	fwd, err := mustGetMapper[invoice, invoiceDTO](t, f).Map(t.Context(), invoice{Net: 100, Tax: 20})
	if err != nil {
		t.Fatalf("Map() error: %v", err)
	}
	if fwd != (invoiceDTO{Net: 100}) {
		t.Errorf("forward Map() = %+v, want only net", fwd)
	}

	back, err := mustGetMapper[invoiceDTO, invoice](t, f).Map(t.Context(), invoiceDTO{Net: 100, Total: 130})
	if err != nil {
		t.Fatalf("reverse Map() error: %v", err)
	}
	want := invoice{Net: 100, Tax: 30}
	if back != want {
		t.Errorf("reverse Map() = %+v, want %+v", back, want)
	}
}

func TestCustomFuncs_TypeMismatch(t *testing.T) {
	c := CustomFuncs(func(in invoice, out *invoiceDTO) error { return nil }, nil)

	err := c.MapAToB(person{}, &invoiceDTO{})
	if err == nil {
		t.Fatal("MapAToB() expected error for wrong source type")
	}
	if !strings.Contains(err.Error(), "custom mapper expects") {
		t.Errorf("error = %q", err.Error())
	}
}

func TestCustomMapper_Failure(t *testing.T) {
	f := NewFactory()
	err := Define[invoice, invoiceDTO](f).
		ByDefault().
		Customize(CustomFuncs(func(in invoice, out *invoiceDTO) error {
			return errors.New("negative total")
		}, nil)).
		Register()
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	_, err = mustGetMapper[invoice, invoiceDTO](t, f).Map(t.Context(), invoice{})
	if !errors.Is(err, ErrHook) {
		t.Fatalf("Map() error = %v, want ErrHook", err)
	}
	if !strings.Contains(err.Error(), "negative total") {
		t.Errorf("error should carry the hook's message: %q", err.Error())
	}
}

func TestAfterMapper(t *testing.T) {
	f := NewFactory()
	if err := Define[person, labelled](f).ByDefault().Register(); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	m := mustGetMapper[person, labelled](t, f)

	got, err := m.Map(t.Context(), person{First: "Ada", Last: "Lovelace"})
	if err != nil {
		t.Fatalf("Map() error: %v", err)
	}
	if got.Full != "Ada Lovelace" {
		t.Errorf("Full = %q, want %q", got.Full, "Ada Lovelace")
	}

	if _, err := m.Map(t.Context(), person{Last: "Lovelace"}); !errors.Is(err, ErrHook) {
		t.Errorf("Map() error = %v, want ErrHook", err)
	}
}

package transit

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashConverter(t *testing.T) {
	c := HashConverter(SHA256Hasher())
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"

	for _, in := range []any{"hello", []byte("hello")} {
		got, err := c.Convert(in)
		if err != nil {
			t.Fatalf("Convert(%T) error: %v", in, err)
		}
		if got != want {
			t.Errorf("Convert(%T) = %v, want %q", in, got, want)
		}
	}

	if _, err := c.Convert(42); err == nil {
		t.Error("Convert(int) should fail")
	}
}

func TestHashConverters_Builtin(t *testing.T) {
	converters := builtinConverters()

	tests := []struct {
		name   string
		check  func(string) bool
		salted bool
	}{
		{ConvertSHA256, func(s string) bool { return len(s) == 64 }, false},
		{ConvertSHA512, func(s string) bool { return len(s) == 128 }, false},
		{ConvertArgon2, func(s string) bool { return strings.HasPrefix(s, "$argon2id$v=19$m=65536,t=1,p=4$") }, true},
		{ConvertBcrypt, func(s string) bool { return strings.HasPrefix(s, "$2a$10$") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := converters[tt.name]
			if !ok {
				t.Fatalf("converter %q is not registered", tt.name)
			}

			first, err := c.Convert("password123")
			if err != nil {
				t.Fatalf("Convert() error: %v", err)
			}
			second, err := c.Convert("password123")
			if err != nil {
				t.Fatalf("Convert() error: %v", err)
			}

			digest, ok := first.(string)
			if !ok || !tt.check(digest) {
				t.Errorf("Convert() = %v, unexpected digest format", first)
			}
			if tt.salted == (first == second) {
				t.Errorf("salted = %v, but repeated digests equal = %v", tt.salted, first == second)
			}
		})
	}
}

func TestHashConverter_BcryptVerifies(t *testing.T) {
	c := HashConverter(BcryptWithCost(BcryptMinCost))

	got, err := c.Convert([]byte("password123"))
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(got.(string)), []byte("password123")); err != nil {
		t.Errorf("digest does not verify: %v", err)
	}
}

func TestHashConverter_Argon2Params(t *testing.T) {
	c := HashConverter(Argon2WithParams(Argon2Params{Time: 2, Memory: 1024, Threads: 1, KeyLen: 16, SaltLen: 8}))

	got, err := c.Convert("password123")
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}
	if digest := got.(string); !strings.Contains(digest, "$m=1024,t=2,p=1$") {
		t.Errorf("Convert() = %q, want custom parameters encoded", digest)
	}
}

type signup struct {
	Email    string `transit:"email"`
	Password string `transit:"password"`
}

type accountRecord struct {
	Email        string `transit:"email"`
	PasswordHash string `transit:"password_hash"`
}

func TestHashConverter_Mapping(t *testing.T) {
	f := NewFactory()
	err := Define[signup, accountRecord](f).
		FieldAToB("password", "password_hash", Using(ConvertSHA256)).
		ByDefault().
		Register()
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	got, err := mustGetMapper[signup, accountRecord](t, f).Map(t.Context(), signup{Email: "a@b.c", Password: "hello"})
	if err != nil {
		t.Fatalf("Map() error: %v", err)
	}
	want := accountRecord{
		Email:        "a@b.c",
		PasswordHash: "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
	}
	if got != want {
		t.Errorf("Map() = %+v, want %+v", got, want)
	}
}

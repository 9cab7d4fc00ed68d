package usecase_test

import (
	"errors"
	"strings"
	"testing"

	domainErrors "github.com/kamaubrian/dukapay/internal/domain/errors"
	testhelpers "github.com/kamaubrian/dukapay/internal/test"
	"github.com/kamaubrian/dukapay/internal/usecase"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"trunk prefix", "0722000000", "254722000000"},
		{"international", "254722000000", "254722000000"},
		{"plus prefix", "+254722000000", "254722000000"},
		{"bare subscriber", "722000000", "254722000000"},
		{"spaces", " 0722 000 000 ", "254722000000"},
		{"new range", "0110000000", "254110000000"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := usecase.NormalizePhone(tc.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestNormalizePhoneRandomLocalNumbers(t *testing.T) {
	for i := 0; i < 50; i++ {
		in := testhelpers.RandomPhone()
		got, err := usecase.NormalizePhone(in)
		if err != nil {
			t.Fatalf("NormalizePhone(%q) returned %v", in, err)
		}
		if len(got) != 12 || !strings.HasPrefix(got, "2547") {
			t.Fatalf("NormalizePhone(%q) = %q, want 12 digit 2547 msisdn", in, got)
		}
	}
}

func TestNormalizePhoneRejectsInvalid(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"letters", "07abc00000"},
		{"too short", "0722"},
		{"too long", "07220000000000"},
		{"landline range", "0522000000"},
		{"wrong country", "255722000000"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := usecase.NormalizePhone(tc.in); !errors.Is(err, domainErrors.ErrInvalidPhone) {
				t.Fatalf("expected invalid phone error, got %v", err)
			}
		})
	}
}

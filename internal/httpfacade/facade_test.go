package httpfacade

import (
	"net/http"
	"testing"

	"github.com/banton/stompy-ticketing/internal/types"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		kind types.ErrorKind
		want int
	}{
		{types.KindValidation, http.StatusBadRequest},
		{types.KindNotFound, http.StatusNotFound},
		{types.KindInvalidTransition, http.StatusConflict},
		{types.KindConflict, http.StatusConflict},
		{types.KindInternal, http.StatusInternalServerError},
		{types.ErrorKind("unknown"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := statusFor(tc.kind); got != tc.want {
			t.Errorf("statusFor(%v) = %d, want %d", tc.kind, got, tc.want)
		}
	}
}

func TestPathID(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "/projects/acme/tickets/42", nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.SetPathValue("id", "42")

	id, err := pathID(req, "id")
	if err != nil {
		t.Fatalf("pathID: %v", err)
	}
	if id != 42 {
		t.Errorf("pathID = %d, want 42", id)
	}
}

func TestPathID_Invalid(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "/projects/acme/tickets/nope", nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.SetPathValue("id", "nope")

	_, err = pathID(req, "id")
	if err == nil {
		t.Fatal("expected error for non-numeric id")
	}
	if types.KindOf(err) != types.KindValidation {
		t.Errorf("KindOf(err) = %v, want %v", types.KindOf(err), types.KindValidation)
	}
}

func TestQueryInt_FallsBackOnMissingOrInvalid(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "/x?limit=abc", nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if got := queryInt(req, "limit", 10); got != 10 {
		t.Errorf("queryInt with invalid value = %d, want fallback 10", got)
	}

	req, err = http.NewRequest(http.MethodGet, "/x?limit=30", nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if got := queryInt(req, "limit", 10); got != 30 {
		t.Errorf("queryInt = %d, want 30", got)
	}
}

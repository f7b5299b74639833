package rpcfacade

import (
	"errors"
	"strings"
	"testing"

	"github.com/banton/stompy-ticketing/internal/types"
)

func TestTicketAction_Valid(t *testing.T) {
	if !TicketActionCreate.valid() {
		t.Error("TicketActionCreate should be valid")
	}
	if !TicketActionClose.valid() {
		t.Error("TicketActionClose should be valid")
	}
	if TicketAction("delete").valid() {
		t.Error(`TicketAction("delete") should not be valid`)
	}
}

func TestLinkAction_Valid(t *testing.T) {
	if !LinkActionAdd.valid() {
		t.Error("LinkActionAdd should be valid")
	}
	if LinkAction("rename").valid() {
		t.Error(`LinkAction("rename") should not be valid`)
	}
}

func TestErrorMap_ClassifiesKnownKind(t *testing.T) {
	err := types.NewNotFound("ticket 7 not found")
	m := errorMap(err)
	if m["error"] != string(types.KindNotFound) {
		t.Errorf("error = %v, want %v", m["error"], types.KindNotFound)
	}
	if msg, _ := m["message"].(string); !strings.Contains(msg, "ticket 7") {
		t.Errorf("message = %v, want to contain %q", m["message"], "ticket 7")
	}
}

func TestErrorMap_DefaultsToInternalForUnclassifiedError(t *testing.T) {
	m := errorMap(errors.New("boom"))
	if m["error"] != string(types.KindInternal) {
		t.Errorf("error = %v, want %v", m["error"], types.KindInternal)
	}
}

func TestNonEmpty(t *testing.T) {
	if nonEmpty("") != nil {
		t.Error(`nonEmpty("") should be nil`)
	}
	got := nonEmpty("x")
	if got == nil || *got != "x" {
		t.Errorf("nonEmpty(%q) = %v, want pointer to %q", "x", got, "x")
	}
}

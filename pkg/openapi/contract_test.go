package openapi_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-onboarding/pkg/model"
	"github.com/goliatone/go-onboarding/pkg/openapi"
)

func loadContract(t *testing.T) *openapi.Contract {
	t.Helper()
	contract, err := openapi.Load(context.Background())
	if err != nil {
		t.Fatalf("load contract: %v", err)
	}
	return contract
}

func TestPayloadFields_MatchSnapshot(t *testing.T) {
	contract := loadContract(t)

	props, err := contract.PayloadFields(openapi.CreateRegistration)
	if err != nil {
		t.Fatalf("payload fields: %v", err)
	}

	var names []model.FieldName
	for _, prop := range props {
		if !prop.Required {
			t.Fatalf("expected %s to be required", prop.Name)
		}
		names = append(names, model.FieldName(prop.Name))
	}
	if diff := cmp.Diff(model.SnapshotFields(), names); diff != "" {
		t.Fatalf("payload fields mismatch (-want +got):\n%s", diff)
	}
	for _, name := range names {
		if name == model.FieldConfirmPassword {
			t.Fatalf("contract must not carry %s", name)
		}
	}
}

func TestPayloadFields_EnumsMatchOptions(t *testing.T) {
	contract := loadContract(t)
	props, err := contract.PayloadFields(openapi.CreateRegistration)
	if err != nil {
		t.Fatalf("payload fields: %v", err)
	}

	values := func(options []model.Option) []string {
		out := make([]string, 0, len(options))
		for _, option := range options {
			out = append(out, option.Value)
		}
		return out
	}
	for _, prop := range props {
		switch model.FieldName(prop.Name) {
		case model.FieldState:
			if diff := cmp.Diff(values(model.Regions()), prop.Enum); diff != "" {
				t.Fatalf("state enum mismatch (-want +got):\n%s", diff)
			}
		case model.FieldNumberOfParticipants:
			if diff := cmp.Diff(values(model.ParticipantRanges()), prop.Enum); diff != "" {
				t.Fatalf("participants enum mismatch (-want +got):\n%s", diff)
			}
		case model.FieldPassword:
			if prop.MinLength != 8 || prop.Format != "password" {
				t.Fatalf("unexpected password property: %+v", prop)
			}
		}
	}
}

func TestValidateSnapshot(t *testing.T) {
	contract := loadContract(t)
	fields := model.Fields{
		ServiceProviderName:  "Acme Care",
		PrimaryContactName:   "Jo Bloggs",
		ContactNumber:        "0400 000 000",
		Address:              "1 Example St",
		State:                model.RegionACT,
		Postcode:             "2600",
		ABN:                  "12 345 678 901",
		NumberOfParticipants: model.ParticipantsOver100,
		EmailAddress:         "admin@acme.test",
		Password:             "longenough1",
		ConfirmPassword:      "longenough1",
		AgreeToTerms:         true,
	}
	if err := contract.ValidateSnapshot(fields.Snapshot()); err != nil {
		t.Fatalf("expected valid snapshot, got %v", err)
	}

	fields.ABN = "1234"
	fields.AgreeToTerms = false
	err := contract.ValidateSnapshot(fields.Snapshot())
	if err == nil {
		t.Fatalf("expected invalid snapshot to fail")
	}
	if !strings.Contains(err.Error(), "does not match contract") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestOperationAndRaw(t *testing.T) {
	contract := loadContract(t)
	method, path, _, ok := contract.Operation("health")
	if !ok || method != "GET" || path != "/health" {
		t.Fatalf("unexpected health operation: %s %s %v", method, path, ok)
	}
	if _, err := contract.PayloadFields("missing"); err == nil {
		t.Fatalf("expected unknown operation to fail")
	}
	if contract.Title() != "Service provider onboarding" {
		t.Fatalf("unexpected title %q", contract.Title())
	}
	if !strings.HasPrefix(string(openapi.Raw()), "openapi: 3.0.3") {
		t.Fatalf("unexpected raw document")
	}
}

func TestLoadFromData_Rejects(t *testing.T) {
	if _, err := openapi.LoadFromData(context.Background(), nil); err == nil {
		t.Fatalf("expected empty payload to fail")
	}
	if _, err := openapi.LoadFromData(context.Background(), []byte("openapi: 3.0.3\ninfo: {title: x, version: '1'}\npaths: {}\n")); err == nil {
		t.Fatalf("expected document without paths to fail")
	}
}

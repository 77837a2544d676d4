package validation_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-onboarding/pkg/model"
	"github.com/goliatone/go-onboarding/pkg/validation"
)

func validFields() model.Fields {
	return model.Fields{
		ServiceProviderName:  "Acme Care",
		PrimaryContactName:   "Jo Bloggs",
		ContactNumber:        "0400 000 000",
		Address:              "1 Example St",
		State:                model.RegionNSW,
		Postcode:             "2000",
		ABN:                  "12 345 678 901",
		NumberOfParticipants: model.Participants11To25,
		EmailAddress:         "admin@acme.test",
		Password:             "longenough1",
		ConfirmPassword:      "longenough1",
		AgreeToTerms:         true,
	}
}

func TestValidate_ValidFieldsProduceNoErrors(t *testing.T) {
	errs := validation.Validate(validFields())
	if errs == nil {
		t.Fatalf("expected empty map, got nil")
	}
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestValidate_EmptyFormReportsRequiredMessages(t *testing.T) {
	got := validation.Validate(model.Fields{})
	want := validation.Errors{
		model.FieldServiceProviderName:  validation.MessageServiceProviderNameRequired,
		model.FieldPrimaryContactName:   validation.MessagePrimaryContactNameRequired,
		model.FieldContactNumber:        validation.MessageContactNumberRequired,
		model.FieldAddress:              validation.MessageAddressRequired,
		model.FieldState:                validation.MessageStateRequired,
		model.FieldPostcode:             validation.MessagePostcodeRequired,
		model.FieldABN:                  validation.MessageABNRequired,
		model.FieldNumberOfParticipants: validation.MessageParticipantsRequired,
		model.FieldEmailAddress:         validation.MessageEmailRequired,
		model.FieldPassword:             validation.MessagePasswordRequired,
		model.FieldAgreeToTerms:         validation.MessageTermsRequired,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_Scenarios(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.Fields)
		want   validation.Errors
	}{
		{
			name:   "abn with ten digits",
			mutate: func(f *model.Fields) { f.ABN = "1234567890" },
			want:   validation.Errors{model.FieldABN: validation.MessageABNFormat},
		},
		{
			name: "short matching password",
			mutate: func(f *model.Fields) {
				f.Password = "abc123"
				f.ConfirmPassword = "abc123"
			},
			want: validation.Errors{model.FieldPassword: validation.MessagePasswordTooShort},
		},
		{
			name: "long password with different confirmation",
			mutate: func(f *model.Fields) {
				f.Password = "longenough1"
				f.ConfirmPassword = "different1"
			},
			want: validation.Errors{model.FieldConfirmPassword: validation.MessagePasswordMismatch},
		},
		{
			name:   "malformed email",
			mutate: func(f *model.Fields) { f.EmailAddress = "not-an-email" },
			want:   validation.Errors{model.FieldEmailAddress: validation.MessageEmailFormat},
		},
		{
			name:   "terms not accepted",
			mutate: func(f *model.Fields) { f.AgreeToTerms = false },
			want:   validation.Errors{model.FieldAgreeToTerms: validation.MessageTermsRequired},
		},
		{
			name:   "whitespace only name is missing",
			mutate: func(f *model.Fields) { f.ServiceProviderName = "   \t" },
			want:   validation.Errors{model.FieldServiceProviderName: validation.MessageServiceProviderNameRequired},
		},
		{
			name:   "whitespace only abn reports required not format",
			mutate: func(f *model.Fields) { f.ABN = "   " },
			want:   validation.Errors{model.FieldABN: validation.MessageABNRequired},
		},
		{
			name:   "abn with letters",
			mutate: func(f *model.Fields) { f.ABN = "1234567890a" },
			want:   validation.Errors{model.FieldABN: validation.MessageABNFormat},
		},
		{
			name:   "abn with tabs and newlines",
			mutate: func(f *model.Fields) { f.ABN = "123\t456\n789 01" },
			want:   validation.Errors{},
		},
		{
			name:   "unknown region",
			mutate: func(f *model.Fields) { f.State = "XYZ" },
			want:   validation.Errors{model.FieldState: validation.MessageStateRequired},
		},
		{
			name:   "unknown participant bucket",
			mutate: func(f *model.Fields) { f.NumberOfParticipants = "1000+" },
			want:   validation.Errors{model.FieldNumberOfParticipants: validation.MessageParticipantsRequired},
		},
		{
			name: "whitespace password is present but short",
			mutate: func(f *model.Fields) {
				f.Password = "   "
				f.ConfirmPassword = "   "
			},
			want: validation.Errors{model.FieldPassword: validation.MessagePasswordTooShort},
		},
		{
			name: "empty password mismatches filled confirmation",
			mutate: func(f *model.Fields) {
				f.Password = ""
			},
			want: validation.Errors{
				model.FieldPassword:        validation.MessagePasswordRequired,
				model.FieldConfirmPassword: validation.MessagePasswordMismatch,
			},
		},
		{
			name: "multibyte password counts characters",
			mutate: func(f *model.Fields) {
				f.Password = "ééééééé"
				f.ConfirmPassword = "ééééééé"
			},
			want: validation.Errors{model.FieldPassword: validation.MessagePasswordTooShort},
		},
		{
			name:   "non-breaking space is not part of an email",
			mutate: func(f *model.Fields) { f.EmailAddress = "a@\u00a0.c" },
			want:   validation.Errors{model.FieldEmailAddress: validation.MessageEmailFormat},
		},
		{
			name:   "email pattern is unanchored",
			mutate: func(f *model.Fields) { f.EmailAddress = "contact me at a@b.co please" },
			want:   validation.Errors{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := validFields()
			tt.mutate(&fields)
			got := validation.Validate(fields)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("errors mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValidate_IsPure(t *testing.T) {
	fields := validFields()
	fields.ABN = "1234"
	fields.EmailAddress = "nope"
	before := fields

	first := validation.Validate(fields)
	second := validation.Validate(fields)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("validation not idempotent (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(before, fields); diff != "" {
		t.Fatalf("validation mutated fields (-before +after):\n%s", diff)
	}

	first[model.FieldAddress] = "tampered"
	if validation.Validate(fields).Has(model.FieldAddress) {
		t.Fatalf("results must be independent maps")
	}
}

func TestIssues_DeclarationOrder(t *testing.T) {
	fields := validFields()
	fields.AgreeToTerms = false
	fields.ServiceProviderName = ""
	fields.ABN = "12"

	got := validation.Issues(fields)
	want := []validation.Issue{
		{Field: model.FieldServiceProviderName, Rule: validation.RuleRequired, Message: validation.MessageServiceProviderNameRequired},
		{Field: model.FieldABN, Rule: validation.RuleFormat, Message: validation.MessageABNFormat},
		{Field: model.FieldAgreeToTerms, Rule: validation.RuleRequired, Message: validation.MessageTermsRequired},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}

	errs := validation.Validate(fields)
	if diff := cmp.Diff([]model.FieldName{model.FieldServiceProviderName, model.FieldABN, model.FieldAgreeToTerms}, errs.Fields()); diff != "" {
		t.Fatalf("fields order mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateField(t *testing.T) {
	fields := validFields()
	fields.Password = "short"

	if msg, ok := validation.ValidateField(fields, model.FieldPassword); ok || msg != validation.MessagePasswordTooShort {
		t.Fatalf("expected too-short message, got %q ok=%v", msg, ok)
	}
	if msg, ok := validation.ValidateField(fields, model.FieldConfirmPassword); ok || msg != validation.MessagePasswordMismatch {
		t.Fatalf("expected mismatch message, got %q ok=%v", msg, ok)
	}
	if _, ok := validation.ValidateField(fields, model.FieldEmailAddress); !ok {
		t.Fatalf("expected email to be valid")
	}
	if _, ok := validation.ValidateField(fields, "nickname"); !ok {
		t.Fatalf("unknown fields carry no rules")
	}
}

func TestRulesFor_EveryFieldHasRules(t *testing.T) {
	for _, name := range model.AllFields() {
		if len(validation.RulesFor(name)) == 0 {
			t.Fatalf("expected rules for %s", name)
		}
	}
	abn := validation.RulesFor(model.FieldABN)
	if len(abn) != 2 || abn[0].Kind != validation.RuleRequired || abn[1].Kind != validation.RuleFormat {
		t.Fatalf("unexpected abn rules: %+v", abn)
	}
}

func TestErrors_Messages(t *testing.T) {
	if validation.Errors(nil).Messages() != nil {
		t.Fatalf("expected nil messages for empty errors")
	}
	errs := validation.Errors{model.FieldABN: validation.MessageABNFormat}
	if diff := cmp.Diff(map[string]string{"abn": validation.MessageABNFormat}, errs.Messages()); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

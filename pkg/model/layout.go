package model

// Field describes how a single input is presented. Struct fields are
// annotated so renderers can serialise them directly when needed.
type Field struct {
	Name        FieldName `json:"name"`
	Kind        FieldKind `json:"kind"`
	Label       string    `json:"label"`
	Placeholder string    `json:"placeholder,omitempty"`
	InputType   string    `json:"inputType,omitempty"`
	Required    bool      `json:"required"`
	Options     []Option  `json:"options,omitempty"`
}

// Section groups fields under a heading. An empty Title renders the fields
// without a heading.
type Section struct {
	Title  string  `json:"title,omitempty"`
	Fields []Field `json:"fields"`
}

// FormModel is the top-level layout presenters consume.
type FormModel struct {
	ID          string    `json:"id"`
	Endpoint    string    `json:"endpoint"`
	Method      string    `json:"method"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	SubmitLabel string    `json:"submitLabel"`
	BusyLabel   string    `json:"busyLabel"`
	Sections    []Section `json:"sections"`
}

// Field looks up the layout entry for name.
func (m FormModel) Field(name FieldName) (Field, bool) {
	for _, section := range m.Sections {
		for _, field := range section.Fields {
			if field.Name == name {
				return field, true
			}
		}
	}
	return Field{}, false
}

// RegistrationForm returns the service-provider registration layout.
func RegistrationForm() FormModel {
	return FormModel{
		ID:          "register",
		Endpoint:    "/register",
		Method:      "POST",
		Title:       "Register Your Service Provider",
		Description: "Join our platform and start managing your NDIS services with AI-powered tools. Start with a free trial - no credit card required.",
		SubmitLabel: "Create Account & Start Free Trial",
		BusyLabel:   "Creating Account...",
		Sections: []Section{
			{
				Title: "Organization Details",
				Fields: []Field{
					textField(FieldServiceProviderName, "Service Provider Name", "Legal name of your organization", "text"),
					textField(FieldABN, "Australian Business Number (ABN)", "11 digit ABN", "text"),
					choiceField(FieldNumberOfParticipants, "Expected Number of Participants", "Select participant count", ParticipantRanges()),
				},
			},
			{
				Title: "Contact Information",
				Fields: []Field{
					textField(FieldPrimaryContactName, "Primary Contact Name", "Full name of primary contact", "text"),
					textField(FieldContactNumber, "Contact Number", "Phone number", "tel"),
					textField(FieldEmailAddress, "Email Address", "admin@yourorganization.com", "email"),
				},
			},
			{
				Title: "Business Address",
				Fields: []Field{
					textField(FieldAddress, "Street Address", "Business address", "text"),
					choiceField(FieldState, "State", "Select State", Regions()),
					textField(FieldPostcode, "Postcode", "Postcode", "text"),
				},
			},
			{
				Title: "Account Security",
				Fields: []Field{
					secretField(FieldPassword, "Password", "Create a secure password"),
					secretField(FieldConfirmPassword, "Confirm Password", "Confirm your password"),
				},
			},
			{
				Fields: []Field{
					{
						Name:      FieldAgreeToTerms,
						Kind:      FieldKindBoolean,
						Label:     "I agree to the Terms of Service and Privacy Policy",
						InputType: "checkbox",
						Required:  true,
					},
				},
			},
		},
	}
}

func textField(name FieldName, label, placeholder, inputType string) Field {
	return Field{
		Name:        name,
		Kind:        FieldKindText,
		Label:       label,
		Placeholder: placeholder,
		InputType:   inputType,
		Required:    true,
	}
}

func secretField(name FieldName, label, placeholder string) Field {
	return Field{
		Name:        name,
		Kind:        FieldKindSecret,
		Label:       label,
		Placeholder: placeholder,
		InputType:   "password",
		Required:    true,
	}
}

// choiceField uses placeholder as the label of the empty leading option.
func choiceField(name FieldName, label, placeholder string, options []Option) Field {
	return Field{
		Name:        name,
		Kind:        FieldKindChoice,
		Label:       label,
		Placeholder: placeholder,
		InputType:   "select",
		Required:    true,
		Options:     options,
	}
}

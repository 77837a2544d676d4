// Package model defines the registration form's field set and the values the
// form controller owns. The field set is closed: every FieldName is declared
// here, carries a FieldKind, and maps onto exactly one member of Fields.
// Enumerated inputs (Region, ParticipantRange) are distinct string types with
// a Valid method so an unknown option can never pass validation by accident.
//
// Snapshot is the payload handed to submission backends. It mirrors Fields
// minus the password confirmation, which only exists for the client-side
// equality check, and redacts the password when logged through slog.
//
// RegistrationForm returns the presentation layout (sections, labels,
// placeholders, options) shared by the HTML and terminal presenters.
package model

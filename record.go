package userstream

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Record is a single row of the user table. Records are immutable values:
// they are parsed and validated once at the source boundary and never
// mutated afterwards.
type Record struct {
	UserID string
	Name   string
	Email  string
	Age    int
}

// LogValue implements slog.LogValuer so records render as structured groups
// in warnings and progress logs.
func (r Record) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("user_id", r.UserID),
		slog.String("name", r.Name),
		slog.String("email", r.Email),
		slog.Int("age", r.Age),
	)
}

// ParseRecord builds a Record from raw text fields, validating each one.
// It returns an *InvalidRecordError when a field is missing or malformed.
func ParseRecord(userID, name, email, ageText string) (Record, error) {
	age, err := strconv.Atoi(strings.TrimSpace(ageText))
	if err != nil {
		return Record{}, &InvalidRecordError{UserID: userID, Field: "age", Reason: fmt.Sprintf("not an integer: %q", ageText)}
	}

	rec := Record{
		UserID: strings.TrimSpace(userID),
		Name:   strings.TrimSpace(name),
		Email:  strings.TrimSpace(email),
		Age:    age,
	}
	if err := rec.validate(); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// validate enforces the field invariants shared by every source.
func (r Record) validate() error {
	switch {
	case r.UserID == "":
		return &InvalidRecordError{Field: "user_id", Reason: "empty"}
	case r.Name == "":
		return &InvalidRecordError{UserID: r.UserID, Field: "name", Reason: "empty"}
	case r.Email == "":
		return &InvalidRecordError{UserID: r.UserID, Field: "email", Reason: "empty"}
	case r.Age < 0:
		return &InvalidRecordError{UserID: r.UserID, Field: "age", Reason: fmt.Sprintf("negative: %d", r.Age)}
	}
	return nil
}

package security

import (
	"errors"
	"testing"
)

func TestDefaultPasswordValidatorAcceptsStrongPassword(t *testing.T) {
	v := DefaultPasswordValidator()
	if err := v.Validate("Nightfall#Cascade2026"); err != nil {
		t.Fatalf("expected strong password to pass, got %v", err)
	}
}

func TestDefaultPasswordValidatorRejectsShortPassword(t *testing.T) {
	v := DefaultPasswordValidator()
	err := v.Validate("Ab1!")
	if err == nil {
		t.Fatal("expected short password to fail")
	}
	var policyErr *PasswordPolicyError
	if !errors.As(err, &policyErr) {
		t.Fatalf("expected PasswordPolicyError, got %T", err)
	}
	if policyErr.Code != "min_length" {
		t.Fatalf("expected min_length violation, got %s", policyErr.Code)
	}
}

func TestDefaultPasswordValidatorRequiresDigit(t *testing.T) {
	v := DefaultPasswordValidator()
	err := v.Validate("NoDigitsHere!")
	var policyErr *PasswordPolicyError
	if !errors.As(err, &policyErr) {
		t.Fatalf("expected PasswordPolicyError, got %v", err)
	}
	if policyErr.Code != "digit" {
		t.Fatalf("expected digit violation, got %s", policyErr.Code)
	}
}

func TestRequireCharacterClassesRule(t *testing.T) {
	rule := RequireCharacterClassesRule(3)
	if err := rule("alllowercase1"); err == nil {
		t.Fatal("expected two-class password to fail")
	}
	if err := rule("Mixed1case"); err != nil {
		t.Fatalf("expected three-class password to pass, got %v", err)
	}
}

func TestDefaultPasswordValidatorAcceptsCommonFormatPassword(t *testing.T) {
	v := DefaultPasswordValidator()
	if err := v.Validate("Secret1!", "alice@example.com"); err != nil {
		t.Fatalf("expected modest mixed-class password to pass, got %v", err)
	}
}

func TestValidatePenalizesUserInputs(t *testing.T) {
	v := DefaultPasswordValidator()
	err := v.Validate("Jane.doe@example.com1", "jane.doe@example.com", "Jane", "Doe")
	if err == nil {
		t.Fatal("expected password built from user inputs to fail")
	}
	var policyErr *PasswordPolicyError
	if !errors.As(err, &policyErr) {
		t.Fatalf("expected PasswordPolicyError, got %T", err)
	}
	if policyErr.Code != "weak_password" {
		t.Fatalf("expected weak_password violation, got %s", policyErr.Code)
	}
}

func TestNilValidatorFailsClosed(t *testing.T) {
	var v *PasswordValidator
	if err := v.Validate("whatever"); err == nil {
		t.Fatal("expected nil validator to reject")
	}
}

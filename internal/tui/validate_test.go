package tui

import "testing"

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name      string
		email     string
		expectErr bool
	}{
		{
			name:      "Valid email",
			email:     "dev@handit.ai",
			expectErr: false,
		},
		{
			name:      "Valid email with surrounding spaces",
			email:     "  dev@handit.ai  ",
			expectErr: false,
		},
		{
			name:      "Empty",
			email:     "",
			expectErr: true,
		},
		{
			name:      "Missing at sign",
			email:     "dev.handit.ai",
			expectErr: true,
		},
		{
			name:      "Missing domain dot",
			email:     "dev@handit",
			expectErr: true,
		},
		{
			name:      "Contains whitespace",
			email:     "dev @handit.ai",
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := validateEmail(tt.email)
			if (msg != "") != tt.expectErr {
				t.Errorf("validateEmail(%q) = %q, expectErr %v", tt.email, msg, tt.expectErr)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name      string
		password  string
		expectErr bool
	}{
		{
			name:      "Valid password",
			password:  "hunter22",
			expectErr: false,
		},
		{
			name:      "Exactly minimum length",
			password:  "123456",
			expectErr: false,
		},
		{
			name:      "Too short",
			password:  "12345",
			expectErr: true,
		},
		{
			name:      "Empty",
			password:  "",
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := validatePassword(tt.password)
			if (msg != "") != tt.expectErr {
				t.Errorf("validatePassword(%q) = %q, expectErr %v", tt.password, msg, tt.expectErr)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	if msg := validateName("Ada", "First name"); msg != "" {
		t.Errorf("validateName(Ada) = %q, want empty", msg)
	}
	if msg := validateName("   ", "First name"); msg == "" {
		t.Error("validateName(blank) = empty, want error message")
	}
}

func TestAuthViewValidateClearsOnEdit(t *testing.T) {
	v := NewAuthView("")
	if v.Validate() {
		t.Fatal("Validate() on empty form = true, want false")
	}
	if _, ok := v.fieldErrs[fieldEmail]; !ok {
		t.Fatal("expected inline error on email field")
	}

	v.inputs[fieldEmail].SetValue("dev@handit.ai")
	v.inputs[fieldPassword].SetValue("hunter22")
	if !v.Validate() {
		t.Errorf("Validate() with valid login fields = false, errs %v", v.fieldErrs)
	}
}

func TestAuthViewToggleKeepsValues(t *testing.T) {
	v := NewAuthView("dev@handit.ai")
	v.inputs[fieldPassword].SetValue("hunter22")

	v.ToggleMode()
	if !v.IsSignup() {
		t.Fatal("ToggleMode() did not switch to signup")
	}
	if v.Email() != "dev@handit.ai" || v.Password() != "hunter22" {
		t.Error("toggling modes lost entered values")
	}

	// Signup requires names too.
	if v.Validate() {
		t.Error("Validate() in signup mode without names = true, want false")
	}

	v.ToggleMode()
	if v.IsSignup() {
		t.Fatal("second ToggleMode() did not switch back to login")
	}
	if !v.Validate() {
		t.Error("Validate() back in login mode = false, want true")
	}
}

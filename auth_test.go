// SPDX-FileCopyrightText: The go-mimesmtp Authors
//
// SPDX-License-Identifier: MIT

package mail

import "testing"

func TestSMTPAuthType_UnmarshalString(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		want       SMTPAuthType
		needsCreds bool
	}{
		{"CRAM-MD5: cram-md5", "cram-md5", SMTPAuthCramMD5, true},
		{"CRAM-MD5: crammd5", "crammd5", SMTPAuthCramMD5, true},
		{"LOGIN: login", "LOGIN", SMTPAuthLogin, true},
		{"NONE: none", "none", SMTPAuthNoAuth, false},
		{"NONE: empty", "", SMTPAuthNoAuth, false},
		{"PLAIN: plain", "Plain", SMTPAuthPlain, true},
		{"SCRAM-SHA-1: scram-sha-1", "scram-sha-1", SMTPAuthSCRAMSHA1, true},
		{"SCRAM-SHA-256: scramsha256", "scramsha256", SMTPAuthSCRAMSHA256, true},
		{"NTLM: ntlmv2", "ntlmv2", SMTPAuthNTLM, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var authType SMTPAuthType
			if err := authType.UnmarshalString(tt.value); err != nil {
				t.Fatalf("UnmarshalString on SMTPAuthType failed: %s", err)
			}
			if authType != tt.want {
				t.Errorf("UnmarshalString(%q) = %s, want %s", tt.value, authType, tt.want)
			}
			if authType.needsCredentials() != tt.needsCreds {
				t.Errorf("needsCredentials() for %s = %t, want %t", authType, authType.needsCredentials(),
					tt.needsCreds)
			}
		})
	}
	t.Run("unsupported value", func(t *testing.T) {
		var authType SMTPAuthType
		if err := authType.UnmarshalString("xoauth2"); err == nil {
			t.Error("expected UnmarshalString to fail for unsupported type")
		}
	})
	t.Run("custom needs no credentials", func(t *testing.T) {
		if SMTPAuthCustom.needsCredentials() {
			t.Error("custom mechanism should not require credentials")
		}
	})
	t.Run("no auth string", func(t *testing.T) {
		if SMTPAuthNoAuth.String() != "NONE" {
			t.Errorf("expected NONE, got: %s", SMTPAuthNoAuth.String())
		}
	})
}

// SPDX-FileCopyrightText: The go-mimesmtp Authors
//
// SPDX-License-Identifier: MIT

package mail

import "testing"

func TestConnectionType_String(t *testing.T) {
	tests := []struct {
		value ConnectionType
		want  string
		port  int
	}{
		{ConnectionTCP, "TCP", DefaultPort},
		{ConnectionSSL, "SSL", DefaultPortSSL},
		{ConnectionTLS, "TLS", DefaultPortTLS},
		{ConnectionUnknown, "Unknown", DefaultPort},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if tt.value.String() != tt.want {
				t.Errorf("wrong string for ConnectionType. Expected: %s, got: %s", tt.want, tt.value.String())
			}
			if tt.value.defaultPort() != tt.port {
				t.Errorf("wrong default port for %s. Expected: %d, got: %d", tt.want, tt.port, tt.value.defaultPort())
			}
		})
	}
}

func TestConnectionType_UnmarshalString(t *testing.T) {
	tests := []struct {
		value   string
		want    ConnectionType
		wantErr bool
	}{
		{"tcp", ConnectionTCP, false},
		{"SSL", ConnectionSSL, false},
		{"smtps", ConnectionSSL, false},
		{" starttls ", ConnectionTLS, false},
		{"TLS", ConnectionTLS, false},
		{"carrier-pigeon", ConnectionUnknown, true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			var connType ConnectionType
			err := connType.UnmarshalString(tt.value)
			if tt.wantErr {
				if err == nil {
					t.Error("expected unmarshal to fail")
				}
				return
			}
			if err != nil {
				t.Fatalf("failed to unmarshal connection type: %s", err)
			}
			if connType != tt.want {
				t.Errorf("UnmarshalString(%q) = %s, want %s", tt.value, connType, tt.want)
			}
		})
	}
}

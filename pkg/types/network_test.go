package types

import "testing"

func TestParseNetwork(t *testing.T) {
	tests := []struct {
		in      string
		want    Network
		chain   string
		wantErr bool
	}{
		{"mainnet", Mainnet, "casper", false},
		{"Testnet", Testnet, "casper-test", false},
		{"casper-test", Testnet, "casper-test", false},
		{" casper ", Mainnet, "casper", false},
		{"devnet", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseNetwork(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseNetwork(%q) should fail", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseNetwork(%q) error: %v", tt.in, err)
			}
			if got != tt.want || got.ChainName() != tt.chain || !got.Valid() {
				t.Errorf("ParseNetwork(%q) = %s (%s), want %s (%s)", tt.in, got, got.ChainName(), tt.want, tt.chain)
			}
		})
	}
}

package deploy

import (
	"errors"
	"testing"
)

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed", `{"deploy_hash":`},
		{"array", `[{"deploy_hash":"d"}]`},
		{"string", `"d"`},
		{"null", `null`},
		{"missing hash", `{"cost":"1"}`},
		{"empty hash", `{"deploy_hash":""}`},
		{"numeric hash", `{"deploy_hash":12}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			if !errors.Is(err, ErrInvalidDeploy) {
				t.Errorf("Parse() error = %v, want ErrInvalidDeploy", err)
			}
		})
	}
}

func TestParse_Lenient(t *testing.T) {
	d, err := Parse([]byte(`{
		"deploy_hash": "abc",
		"cost": 1000,
		"payment_amount": null,
		"transfers": "not-a-list",
		"execution_type_id": "6",
		"contract_package": {"name": "Token", "contract_type_id": "2", "metadata": {"decimals": "9"}},
		"entry_point": {"name": null},
		"contract_entrypoint": {"name": "transfer"}
	}`))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if d.Cost != "1000" {
		t.Errorf("Cost = %q, want 1000", d.Cost)
	}
	if d.PaymentAmount != "" {
		t.Errorf("PaymentAmount = %q, want empty", d.PaymentAmount)
	}
	if d.Transfers != nil {
		t.Errorf("Transfers = %v, want nil", d.Transfers)
	}
	if !d.ExecutionTypeID.Set || d.ExecutionTypeID.V != 6 {
		t.Errorf("ExecutionTypeID = %+v, want 6", d.ExecutionTypeID)
	}
	if id, ok := d.ContractTypeID(); !ok || id != 2 {
		t.Errorf("ContractTypeID() = (%d, %v), want (2, true)", id, ok)
	}
	if got := d.EntryPointName(); got != "transfer" {
		t.Errorf("EntryPointName() = %q, want contract_entrypoint fallback", got)
	}
}

func TestParseMany(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantOK   int
		wantErrs int
	}{
		{"array", `[{"deploy_hash":"a"},{"deploy_hash":"b"},{"nope":1}]`, 2, 1},
		{"page", `{"data":[{"deploy_hash":"a"}],"page_count":1}`, 1, 0},
		{"single", `{"deploy_hash":"a"}`, 1, 0},
		{"garbage", `42`, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errs := ParseMany([]byte(tt.input))
			if len(got) != tt.wantOK || len(errs) != tt.wantErrs {
				t.Errorf("ParseMany() = %d deploys, %d errors; want %d, %d", len(got), len(errs), tt.wantOK, tt.wantErrs)
			}
		})
	}
}

func TestArg_Accessors(t *testing.T) {
	d := mustParse(t, `{"deploy_hash":"d","args":{
		"recipient":{"cl_type":"Key","parsed":{"Account":"account-hash-00ff"}},
		"ids":{"cl_type":{"List":"U256"},"parsed":["1","2"]},
		"nil":{"cl_type":"Key","parsed":{"Account":null}},
		"gone":null
	}}`)

	rec, ok := d.Args.Get("recipient")
	if !ok {
		t.Fatal("recipient missing")
	}
	if rec.TypeName() != "Key" {
		t.Errorf("TypeName() = %q, want Key", rec.TypeName())
	}
	if v, ok := rec.Tagged(TagAccount); !ok || v != "account-hash-00ff" {
		t.Errorf("Tagged(Account) = (%q, %v)", v, ok)
	}
	if _, ok := rec.Tagged(TagHash); ok {
		t.Error("Tagged(Hash) should be absent")
	}

	ids, _ := d.Args.Get("ids")
	if ids.TypeName() != "List" {
		t.Errorf("TypeName() = %q, want List", ids.TypeName())
	}
	if items, ok := ids.List(); !ok || len(items) != 2 {
		t.Errorf("List() = %v, %v", items, ok)
	}

	nilArg, _ := d.Args.Get("nil")
	if _, ok := nilArg.Tagged(TagAccount); ok {
		t.Error("null tagged value should be absent")
	}
	if d.Args.Has("gone") {
		t.Error("null argument should be absent")
	}
}

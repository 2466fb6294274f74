package deploy

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Klingon-tech/cspr-wallet-core/internal/log"
)

// ErrInvalidDeploy is returned when a record cannot be classified at all:
// malformed JSON, a non-object value, or a missing deploy hash.
var ErrInvalidDeploy = errors.New("invalid deploy")

// CloudDeploy is a deploy record as served by the block-explorer API.
// Every field is optional except the deploy hash.
type CloudDeploy struct {
	DeployHash          string           `json:"deploy_hash"`
	CallerPublicKey     Text             `json:"caller_public_key"`
	Args                Args             `json:"args"`
	ContractHash        Text             `json:"contract_hash"`
	ContractPackageHash Text             `json:"contract_package_hash"`
	ContractPackage     *ContractPackage `json:"contract_package"`
	EntryPoint          *EntryPointRef   `json:"entry_point"`
	ContractEntrypoint  *EntryPointRef   `json:"contract_entrypoint"`
	Status              Text             `json:"status"`
	ErrorMessage        Text             `json:"error_message"`
	Cost                Text             `json:"cost"`
	PaymentAmount       Text             `json:"payment_amount"`
	Timestamp           Text             `json:"timestamp"`
	ExecutionTypeID     OptInt           `json:"execution_type_id"`
	Transfers           []Transfer       `json:"transfers"`
	FtTokenActions      []FtAction       `json:"ft_token_actions"`
	NftTokenActions     []NftAction      `json:"nft_token_actions"`
}

// ContractPackage is the package summary embedded in deploys and actions.
type ContractPackage struct {
	Name                        Text             `json:"name"`
	ContractPackageHash         Text             `json:"contract_package_hash"`
	ContractTypeID              OptInt           `json:"contract_type_id"`
	LatestVersionContractTypeID OptInt           `json:"latest_version_contract_type_id"`
	IconURL                     Text             `json:"icon_url"`
	Metadata                    *PackageMetadata `json:"metadata"`
}

// PackageMetadata carries token metadata for CEP-18 packages.
type PackageMetadata struct {
	Symbol   Text   `json:"symbol"`
	Decimals OptInt `json:"decimals"`
}

// EntryPointRef names the invoked entry point.
type EntryPointRef struct {
	Name Text `json:"name"`
}

// Transfer is a native CSPR transfer side effect.
type Transfer struct {
	Amount             Text `json:"amount"`
	FromPurse          Text `json:"from_purse"`
	FromPursePublicKey Text `json:"from_purse_public_key"`
	ToPurse            Text `json:"to_purse"`
	ToPursePublicKey   Text `json:"to_purse_public_key"`
	ToAccountHash      Text `json:"to_account_hash"`
	Timestamp          Text `json:"timestamp"`
}

// Transactor hash types used by token actions.
const (
	TransactorAccount = 0
	TransactorHash    = 1
)

// FtAction is a fungible-token action side effect.
type FtAction struct {
	Amount          Text             `json:"amount"`
	FtActionTypeID  OptInt           `json:"ft_action_type_id"`
	FromHash        Text             `json:"from_hash"`
	FromPublicKey   Text             `json:"from_public_key"`
	FromType        OptInt           `json:"from_type"`
	ToHash          Text             `json:"to_hash"`
	ToPublicKey     Text             `json:"to_public_key"`
	ToType          OptInt           `json:"to_type"`
	Timestamp       Text             `json:"timestamp"`
	ContractPackage *ContractPackage `json:"contract_package"`
}

// NftAction is an NFT action side effect.
type NftAction struct {
	NftActionID     OptInt           `json:"nft_action_id"`
	FromHash        Text             `json:"from_hash"`
	FromPublicKey   Text             `json:"from_public_key"`
	FromType        OptInt           `json:"from_type"`
	ToHash          Text             `json:"to_hash"`
	ToPublicKey     Text             `json:"to_public_key"`
	ToType          OptInt           `json:"to_type"`
	TokenID         Text             `json:"token_id"`
	Timestamp       Text             `json:"timestamp"`
	ContractPackage *ContractPackage `json:"contract_package"`
}

// Parse decodes one deploy record. Fields with an unexpected JSON type are
// dropped rather than failing the record.
func Parse(data []byte) (*CloudDeploy, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return nil, fmt.Errorf("%w: not a JSON object", ErrInvalidDeploy)
	}
	var hash string
	if err := json.Unmarshal(fields["deploy_hash"], &hash); err != nil || hash == "" {
		return nil, fmt.Errorf("%w: missing deploy_hash", ErrInvalidDeploy)
	}

	var d CloudDeploy
	if err := json.Unmarshal(data, &d); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDeploy, err)
		}
		log.Deploy.Debug().Str("deploy", hash).Str("field", typeErr.Field).Msg("Ignoring mistyped deploy field")
	}
	d.DeployHash = hash
	return &d, nil
}

// ParseMany decodes a JSON array of deploys, a single deploy object, or an
// API page of the form {"data": [...]}. Invalid entries are skipped and
// reported through the returned error slice.
func ParseMany(data []byte) ([]*CloudDeploy, []error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var page struct {
			Data []json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(data, &page); err == nil && page.Data != nil {
			return parseEach(page.Data)
		}
		d, err := Parse(data)
		if err != nil {
			return nil, []error{err}
		}
		return []*CloudDeploy{d}, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, []error{fmt.Errorf("%w: %v", ErrInvalidDeploy, err)}
	}
	return parseEach(items)
}

func parseEach(items []json.RawMessage) ([]*CloudDeploy, []error) {
	var (
		out  []*CloudDeploy
		errs []error
	)
	for i, item := range items {
		d, err := Parse(item)
		if err != nil {
			errs = append(errs, fmt.Errorf("item %d: %w", i, err))
			continue
		}
		out = append(out, d)
	}
	return out, errs
}

// EntryPointName returns entry_point.name, falling back to
// contract_entrypoint.name.
func (d *CloudDeploy) EntryPointName() string {
	if d.EntryPoint != nil && d.EntryPoint.Name != "" {
		return string(d.EntryPoint.Name)
	}
	if d.ContractEntrypoint != nil {
		return string(d.ContractEntrypoint.Name)
	}
	return ""
}

// ContractTypeID returns the package's latest-version contract type id,
// falling back to its own type id.
func (d *CloudDeploy) ContractTypeID() (int, bool) {
	cp := d.ContractPackage
	if cp == nil {
		return 0, false
	}
	if cp.LatestVersionContractTypeID.Set && cp.LatestVersionContractTypeID.V != 0 {
		return cp.LatestVersionContractTypeID.V, true
	}
	if cp.ContractTypeID.Set {
		return cp.ContractTypeID.V, true
	}
	return 0, false
}

func (d *CloudDeploy) packageName() string {
	if d.ContractPackage == nil {
		return ""
	}
	return string(d.ContractPackage.Name)
}

func (d *CloudDeploy) iconURL() string {
	if d.ContractPackage == nil {
		return ""
	}
	return string(d.ContractPackage.IconURL)
}

// Text is a JSON scalar read as a string. Numbers keep their literal form;
// null, objects and arrays read as "".
type Text string

// UnmarshalJSON implements json.Unmarshaler and never fails.
func (t *Text) UnmarshalJSON(b []byte) error {
	*t = Text(scalarString(b))
	return nil
}

// OptInt is an optional integer that also accepts numeric strings.
type OptInt struct {
	V   int
	Set bool
}

// UnmarshalJSON implements json.Unmarshaler and never fails.
func (o *OptInt) UnmarshalJSON(b []byte) error {
	*o = OptInt{}
	if n, err := strconv.Atoi(scalarString(b)); err == nil {
		*o = OptInt{V: n, Set: true}
	}
	return nil
}

// MarshalJSON encodes unset values as null.
func (o OptInt) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(o.V)), nil
}

func scalarString(b []byte) string {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return ""
	}
	switch c := b[0]; {
	case c == '"':
		var s string
		if json.Unmarshal(b, &s) != nil {
			return ""
		}
		return s
	case c == '-' || (c >= '0' && c <= '9'):
		return string(b)
	case bytes.Equal(b, []byte("true")), bytes.Equal(b, []byte("false")):
		return string(b)
	default:
		return ""
	}
}

// jsonString decodes raw when it is a JSON string literal.
func jsonString(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if json.Unmarshal(raw, &s) != nil {
		return "", false
	}
	return s, true
}

// KeyTag is the variant name of a tagged Key argument.
type KeyTag string

const (
	TagAccount   KeyTag = "Account"
	TagHash      KeyTag = "Hash"
	TagPublicKey KeyTag = "PublicKey"
)

// Args is the named, CL-typed argument bag of a deploy.
type Args map[string]*Arg

// Get returns the named argument. JSON null arguments are absent.
func (a Args) Get(name string) (*Arg, bool) {
	arg, ok := a[name]
	return arg, ok && arg != nil
}

// Has reports whether the named argument is present.
func (a Args) Has(name string) bool {
	_, ok := a.Get(name)
	return ok
}

// Arg is one CL-typed argument: its type descriptor and parsed value.
type Arg struct {
	CLType json.RawMessage `json:"cl_type"`
	Parsed json.RawMessage `json:"parsed"`
}

// TypeName returns the CL type name: the string itself for simple types,
// the outer constructor ("List", "Option", ...) for compound ones.
func (a *Arg) TypeName() string {
	if a == nil {
		return ""
	}
	if s := scalarString(a.CLType); s != "" {
		return s
	}
	var obj map[string]json.RawMessage
	if json.Unmarshal(a.CLType, &obj) != nil || len(obj) == 0 {
		return ""
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys[0]
}

// String returns the parsed value when it is a JSON string.
func (a *Arg) String() (string, bool) {
	if a == nil {
		return "", false
	}
	return jsonString(a.Parsed)
}

// Scalar returns the parsed value as text when it is a string or number.
func (a *Arg) Scalar() string {
	if a == nil {
		return ""
	}
	return scalarString(a.Parsed)
}

// Tagged returns the string stored under tag when the parsed value is a
// tagged key object such as {"Account": "account-hash-..."}.
func (a *Arg) Tagged(tag KeyTag) (string, bool) {
	if a == nil {
		return "", false
	}
	var obj map[string]json.RawMessage
	if json.Unmarshal(a.Parsed, &obj) != nil {
		return "", false
	}
	return jsonString(obj[string(tag)])
}

// List returns the elements of a list-valued argument.
func (a *Arg) List() ([]json.RawMessage, bool) {
	if a == nil {
		return nil, false
	}
	var items []json.RawMessage
	if json.Unmarshal(a.Parsed, &items) != nil {
		return nil, false
	}
	return items, true
}

// entryPointIs reports whether name equals one of the given entry points.
func entryPointIs(name string, eps ...string) bool {
	for _, ep := range eps {
		if strings.EqualFold(name, ep) {
			return true
		}
	}
	return false
}

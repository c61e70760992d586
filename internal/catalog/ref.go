package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const manualPrefix = "manual-"

// ItemRef points an invoice line at either a catalog product or a manual item
// that exists only on the invoice. On the wire a catalog ref is a JSON number and
// a manual ref is a "manual-..." string.
type ItemRef struct {
	ProductID int64
	Manual    string
}

// ProductRef references a catalog product.
func ProductRef(id int64) ItemRef {
	return ItemRef{ProductID: id}
}

// NewManualRef allocates a fresh manual identifier.
func NewManualRef() ItemRef {
	return ItemRef{Manual: manualPrefix + uuid.NewString()}
}

// IsManual reports whether the ref is outside the catalog.
func (r ItemRef) IsManual() bool {
	return r.Manual != ""
}

// IsZero reports whether the ref points nowhere.
func (r ItemRef) IsZero() bool {
	return r.Manual == "" && r.ProductID == 0
}

func (r ItemRef) String() string {
	if r.IsManual() {
		return r.Manual
	}
	return strconv.FormatInt(r.ProductID, 10)
}

// MarshalJSON implements json.Marshaler.
func (r ItemRef) MarshalJSON() ([]byte, error) {
	if r.IsManual() {
		return json.Marshal(r.Manual)
	}
	return []byte(strconv.FormatInt(r.ProductID, 10)), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *ItemRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		return r.parse(s)
	}
	id, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("catalog: item ref %s: %w", data, err)
	}
	*r = ProductRef(id)
	return nil
}

func (r *ItemRef) parse(s string) error {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, manualPrefix) && len(s) > len(manualPrefix) {
		*r = ItemRef{Manual: s}
		return nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("catalog: item ref %q is neither a product id nor a manual id", s)
	}
	*r = ProductRef(id)
	return nil
}

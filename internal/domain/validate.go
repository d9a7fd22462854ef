package domain

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// Business rule bounds.
const (
	MaxCustomerNameLength = 50
	MaxProductNameLength  = 100
	MaxLineItems          = 100
	MaxTotalQuantity      = 1_000_000
)

// Validation rule codes, one per business rule. The code is carried through
// to the API response so clients can render a targeted message.
const (
	CodeMissingCustomerName      = "MISSING_CUSTOMER_NAME"
	CodeCustomerNameTooLong      = "CUSTOMER_NAME_TOO_LONG"
	CodeInvalidCustomerNameChars = "INVALID_CUSTOMER_NAME_CHARACTERS"
	CodeTooManyLineItems         = "TOO_MANY_LINE_ITEMS"
	CodeMissingProductName       = "MISSING_PRODUCT_NAME"
	CodeDuplicateProductName     = "DUPLICATE_PRODUCT_NAME"
	CodeInvalidProductNameChars  = "INVALID_PRODUCT_NAME_CHARACTERS"
	CodeUnknownProduct           = "UNKNOWN_PRODUCT"
	CodeInvalidQuantity          = "INVALID_QUANTITY"
	CodeTotalQuantityExceeded    = "TOTAL_QUANTITY_EXCEEDED"
)

var (
	customerNamePattern = regexp.MustCompile(`^[a-zA-Z ]+$`)
	productNamePattern  = regexp.MustCompile(`^[a-zA-Z0-9 ]+$`)
)

// ValidationError identifies the first business rule a draft order violates.
type ValidationError struct {
	Code        string
	Message     string
	ItemIndex   int    // zero-based line index, -1 when not tied to a line
	ProductName string // set for product-level rules
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateOptions toggles the stricter product-name ruleset.
type ValidateOptions struct {
	// StrictProductNames additionally bounds product name length and charset
	// and requires every product to exist in the catalog.
	StrictProductNames bool
}

// ValidateOrder checks a draft order against the business rules in a fixed
// order and stops at the first violation, so callers surface exactly one
// error per submit attempt. It performs no I/O and never mutates its inputs.
func ValidateOrder(draft DraftOrder, catalog Catalog, opts ValidateOptions) *ValidationError {
	if strings.TrimSpace(draft.CustomerName) == "" {
		return &ValidationError{
			Code:      CodeMissingCustomerName,
			Message:   "customer name is required",
			ItemIndex: -1,
		}
	}
	if len(draft.CustomerName) > MaxCustomerNameLength {
		return &ValidationError{
			Code:      CodeCustomerNameTooLong,
			Message:   fmt.Sprintf("customer name must be at most %d characters", MaxCustomerNameLength),
			ItemIndex: -1,
		}
	}
	if !customerNamePattern.MatchString(draft.CustomerName) {
		return &ValidationError{
			Code:      CodeInvalidCustomerNameChars,
			Message:   "customer name may only contain letters and spaces",
			ItemIndex: -1,
		}
	}

	if len(draft.Items) > MaxLineItems {
		return &ValidationError{
			Code:      CodeTooManyLineItems,
			Message:   fmt.Sprintf("an order may have at most %d line items", MaxLineItems),
			ItemIndex: -1,
		}
	}

	seen := make(map[string]struct{}, len(draft.Items))
	var totalQuantity float64

	for i, item := range draft.Items {
		if item.ProductName == "" {
			return &ValidationError{
				Code:      CodeMissingProductName,
				Message:   fmt.Sprintf("item %d: product name is required", i+1),
				ItemIndex: i,
			}
		}
		if _, dup := seen[item.ProductName]; dup {
			return &ValidationError{
				Code:        CodeDuplicateProductName,
				Message:     fmt.Sprintf("product %q appears more than once", item.ProductName),
				ItemIndex:   i,
				ProductName: item.ProductName,
			}
		}
		seen[item.ProductName] = struct{}{}

		if opts.StrictProductNames {
			if len(item.ProductName) > MaxProductNameLength || !productNamePattern.MatchString(item.ProductName) {
				return &ValidationError{
					Code:        CodeInvalidProductNameChars,
					Message:     fmt.Sprintf("item %d: product name contains invalid characters or is too long", i+1),
					ItemIndex:   i,
					ProductName: item.ProductName,
				}
			}
			if !catalog.Has(item.ProductName) {
				return &ValidationError{
					Code:        CodeUnknownProduct,
					Message:     fmt.Sprintf("product %q is not in the catalog", item.ProductName),
					ItemIndex:   i,
					ProductName: item.ProductName,
				}
			}
		}

		if item.Quantity < 1 || item.Quantity > MaxTotalQuantity || item.Quantity != math.Trunc(item.Quantity) {
			return &ValidationError{
				Code:        CodeInvalidQuantity,
				Message:     fmt.Sprintf("item %d: quantity must be a whole number between 1 and %d", i+1, MaxTotalQuantity),
				ItemIndex:   i,
				ProductName: item.ProductName,
			}
		}

		totalQuantity += item.Quantity
	}

	if totalQuantity > MaxTotalQuantity {
		return &ValidationError{
			Code:      CodeTotalQuantityExceeded,
			Message:   fmt.Sprintf("total quantity across all items must not exceed %d", MaxTotalQuantity),
			ItemIndex: -1,
		}
	}

	return nil
}

package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() DraftOrder {
	return DraftOrder{
		CustomerName: "Jane Doe",
		Currency:     "USD",
		Items: []DraftItem{
			{ProductName: "Widget", Quantity: 5},
		},
	}
}

// --- Happy path ---

func TestValidateOrder_Valid(t *testing.T) {
	err := ValidateOrder(validDraft(), testCatalog(), ValidateOptions{})
	assert.Nil(t, err)
}

func TestValidateOrder_Valid_Strict(t *testing.T) {
	err := ValidateOrder(validDraft(), testCatalog(), ValidateOptions{StrictProductNames: true})
	assert.Nil(t, err)
}

// --- Customer name rules ---

func TestValidateOrder_MissingCustomerName(t *testing.T) {
	tests := []struct {
		name         string
		customerName string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := validDraft()
			draft.CustomerName = tt.customerName

			err := ValidateOrder(draft, testCatalog(), ValidateOptions{})
			require.NotNil(t, err)
			assert.Equal(t, CodeMissingCustomerName, err.Code)
			assert.Equal(t, -1, err.ItemIndex)
		})
	}
}

func TestValidateOrder_CustomerNameTooLong(t *testing.T) {
	draft := validDraft()
	draft.CustomerName = strings.Repeat("a", MaxCustomerNameLength+1)

	err := ValidateOrder(draft, testCatalog(), ValidateOptions{})
	require.NotNil(t, err)
	assert.Equal(t, CodeCustomerNameTooLong, err.Code)
}

func TestValidateOrder_InvalidCustomerNameCharacters(t *testing.T) {
	for _, name := range []string{"Jane D0e", "J@ne", "Jane-Doe", "Jane\tDoe"} {
		draft := validDraft()
		draft.CustomerName = name

		err := ValidateOrder(draft, testCatalog(), ValidateOptions{})
		require.NotNil(t, err, "name %q should be rejected", name)
		assert.Equal(t, CodeInvalidCustomerNameChars, err.Code)
	}
}

// --- Line item rules ---

func TestValidateOrder_TooManyLineItems(t *testing.T) {
	draft := validDraft()
	draft.Items = nil
	for i := 0; i <= MaxLineItems; i++ {
		draft.Items = append(draft.Items, DraftItem{
			ProductName: "Product " + strings.Repeat("x", i%10), Quantity: 1,
		})
	}

	err := ValidateOrder(draft, testCatalog(), ValidateOptions{})
	require.NotNil(t, err)
	assert.Equal(t, CodeTooManyLineItems, err.Code)
}

func TestValidateOrder_MissingProductName(t *testing.T) {
	draft := validDraft()
	draft.Items = append(draft.Items, DraftItem{ProductName: "", Quantity: 2})

	err := ValidateOrder(draft, testCatalog(), ValidateOptions{})
	require.NotNil(t, err)
	assert.Equal(t, CodeMissingProductName, err.Code)
	assert.Equal(t, 1, err.ItemIndex)
}

func TestValidateOrder_DuplicateProductName(t *testing.T) {
	draft := validDraft()
	draft.Items = []DraftItem{
		{ProductName: "Widget", Quantity: 5},
		{ProductName: "Widget", Quantity: 2}, // different quantity, still a dup
	}

	err := ValidateOrder(draft, testCatalog(), ValidateOptions{})
	require.NotNil(t, err)
	assert.Equal(t, CodeDuplicateProductName, err.Code)
	assert.Equal(t, "Widget", err.ProductName)
	assert.Equal(t, 1, err.ItemIndex)
}

func TestValidateOrder_StrictProductNameCharset(t *testing.T) {
	tests := []struct {
		name    string
		product string
	}{
		{"special characters", "Widget!"},
		{"too long", strings.Repeat("a", MaxProductNameLength+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := validDraft()
			draft.Items = []DraftItem{{ProductName: tt.product, Quantity: 1}}

			err := ValidateOrder(draft, testCatalog(), ValidateOptions{StrictProductNames: true})
			require.NotNil(t, err)
			assert.Equal(t, CodeInvalidProductNameChars, err.Code)
		})
	}
}

func TestValidateOrder_StrictUnknownProduct(t *testing.T) {
	draft := validDraft()
	draft.Items = []DraftItem{{ProductName: "Sprocket", Quantity: 1}}

	err := ValidateOrder(draft, testCatalog(), ValidateOptions{StrictProductNames: true})
	require.NotNil(t, err)
	assert.Equal(t, CodeUnknownProduct, err.Code)
	assert.Equal(t, "Sprocket", err.ProductName)
}

func TestValidateOrder_LaxModeAllowsUnknownProduct(t *testing.T) {
	draft := validDraft()
	draft.Items = []DraftItem{{ProductName: "Sprocket", Quantity: 1}}

	assert.Nil(t, ValidateOrder(draft, testCatalog(), ValidateOptions{}))
}

// --- Quantity rules ---

func TestValidateOrder_InvalidQuantity(t *testing.T) {
	for _, qty := range []float64{0, -1, 1.5, MaxTotalQuantity + 1} {
		draft := validDraft()
		draft.Items = []DraftItem{{ProductName: "Widget", Quantity: qty}}

		err := ValidateOrder(draft, testCatalog(), ValidateOptions{})
		require.NotNil(t, err, "quantity %v should be rejected", qty)
		assert.Equal(t, CodeInvalidQuantity, err.Code)
		assert.Equal(t, 0, err.ItemIndex)
	}
}

func TestValidateOrder_QuantityBounds(t *testing.T) {
	for _, qty := range []float64{1, MaxTotalQuantity} {
		draft := validDraft()
		draft.Items = []DraftItem{{ProductName: "Widget", Quantity: qty}}

		assert.Nil(t, ValidateOrder(draft, testCatalog(), ValidateOptions{}),
			"quantity %v should be accepted", qty)
	}
}

func TestValidateOrder_TotalQuantityExceeded(t *testing.T) {
	// Each line is individually valid but the sum crosses the cap.
	draft := validDraft()
	draft.Items = []DraftItem{
		{ProductName: "Widget", Quantity: 600_000},
		{ProductName: "Gadget", Quantity: 400_001},
	}

	err := ValidateOrder(draft, testCatalog(), ValidateOptions{})
	require.NotNil(t, err)
	assert.Equal(t, CodeTotalQuantityExceeded, err.Code)
	assert.Equal(t, -1, err.ItemIndex)
}

// --- Fail-fast ordering ---

func TestValidateOrder_StopsAtFirstFailure(t *testing.T) {
	// Both the customer name and a quantity are invalid; the name rule runs
	// first so that is the single error surfaced.
	draft := DraftOrder{
		CustomerName: "",
		Currency:     "USD",
		Items:        []DraftItem{{ProductName: "Widget", Quantity: 0}},
	}

	err := ValidateOrder(draft, testCatalog(), ValidateOptions{})
	require.NotNil(t, err)
	assert.Equal(t, CodeMissingCustomerName, err.Code)
}

func TestValidateOrder_DoesNotMutateInputs(t *testing.T) {
	catalog := testCatalog()
	draft := validDraft()

	_ = ValidateOrder(draft, catalog, ValidateOptions{StrictProductNames: true})

	assert.Len(t, catalog, 3)
	assert.Equal(t, "Jane Doe", draft.CustomerName)
	assert.Len(t, draft.Items, 1)
}

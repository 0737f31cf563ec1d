package core

// The expense and income category tables are two separate namespaces.
// Both contain the literal key "other" but map it to different display
// strings, so every lookup takes the transaction type as context.

var expenseCategoryNames = map[string]string{
	"food":          "Food & Dining",
	"transport":     "Transportation",
	"utilities":     "Utilities & Bills",
	"entertainment": "Entertainment",
	"shopping":      "Shopping",
	"other":         "Other",
}

var incomeCategoryNames = map[string]string{
	"salary":     "Salary & Wages",
	"investment": "Investments",
	"gifts":      "Gifts & Rewards",
	"other":      "Other",
}

// Chart slices and budget lists keep this fixed ordering.
var expenseCategoryOrder = []string{
	"food", "transport", "utilities", "entertainment", "shopping", "other",
}

var incomeCategoryOrder = []string{
	"salary", "investment", "gifts", "other",
}

func categoryTable(typ TransactionType) map[string]string {
	if typ == Income {
		return incomeCategoryNames
	}
	return expenseCategoryNames
}

// DisplayName resolves a category key to its display string, falling
// back to the raw key when unrecognized. It never errors.
func DisplayName(typ TransactionType, key string) string {
	if name, ok := categoryTable(typ)[key]; ok {
		return name
	}
	return key
}

// CategoryKey is the reverse lookup of DisplayName, falling back to the
// given string when no category matches.
func CategoryKey(typ TransactionType, display string) string {
	for key, name := range categoryTable(typ) {
		if name == display {
			return key
		}
	}
	return display
}

// ValidCategory reports whether key exists in the namespace for typ.
func ValidCategory(typ TransactionType, key string) bool {
	_, ok := categoryTable(typ)[key]
	return ok
}

// CategoryKeys returns the ordered category keys for typ.
func CategoryKeys(typ TransactionType) []string {
	var order []string
	if typ == Income {
		order = incomeCategoryOrder
	} else {
		order = expenseCategoryOrder
	}
	out := make([]string, len(order))
	copy(out, order)
	return out
}

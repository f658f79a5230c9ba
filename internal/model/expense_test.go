package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryForSupplierType(t *testing.T) {
	cases := []struct {
		supplierType SupplierType
		want         ExpenseCategory
	}{
		{SupplierTypeMaterials, CategoryMaterials},
		{SupplierTypeEquipment, CategoryEquipment},
		{SupplierTypeServices, CategoryLabor},
		{SupplierTypeTransport, CategoryTransport},
		{SupplierType("labor"), CategoryOther},
		{SupplierType("permits"), CategoryOther},
		{SupplierType("utilities"), CategoryOther},
		{SupplierType(""), CategoryOther},
		{SupplierType("whatever"), CategoryOther},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, CategoryForSupplierType(tc.supplierType), "supplier type %q", tc.supplierType)
	}
}

func TestExpenseCategoryIsValid(t *testing.T) {
	for _, c := range []ExpenseCategory{CategoryMaterials, CategoryEquipment, CategoryLabor, CategoryTransport, CategoryPermits, CategoryOther} {
		assert.True(t, c.IsValid(), "%q", c)
	}
	assert.False(t, ExpenseCategory("rent").IsValid())
	assert.False(t, ExpenseCategory("").IsValid())
}

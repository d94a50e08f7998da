package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfcore/salesforce/query"
)

type account struct {
	ID   string `json:"Id"`
	Name string `json:"Name"`
}

func TestBuilder_Build_FailsWhenNoFieldsSelected(t *testing.T) {
	_, err := query.New[account]("Account").Build()
	require.Error(t, err)
}

func TestBuilder_SelectFields(t *testing.T) {
	soql, err := query.New[account]("Account").Select("Name", "Industry").Build()
	require.NoError(t, err)
	assert.Equal(t, "SELECT Name, Industry FROM Account", soql)
}

func TestBuilder_WhereEq_EscapesStringLiteral(t *testing.T) {
	soql, err := query.New[account]("Account").
		Select("Id").
		WhereEq("Name", "O'Brien").
		Build()
	require.NoError(t, err)
	assert.Equal(t, `SELECT Id FROM Account WHERE Name = 'O\'Brien'`, soql)
}

func TestBuilder_WhereIn(t *testing.T) {
	soql, err := query.New[account]("Account").
		Select("Id").
		WhereIn("Status__c", "Open", "Closed").
		Build()
	require.NoError(t, err)
	assert.Equal(t, `SELECT Id FROM Account WHERE Status__c IN ('Open', 'Closed')`, soql)
}

func TestBuilder_WhereLike_EscapesWildcards(t *testing.T) {
	soql, err := query.New[account]("Account").
		Select("Id").
		WhereLike("Name", "Acme%_Corp").
		Build()
	require.NoError(t, err)
	assert.Equal(t, `SELECT Id FROM Account WHERE Name LIKE 'Acme\%\_Corp'`, soql)
}

func TestBuilder_OrderByLimitOffset(t *testing.T) {
	soql, err := query.New[account]("Account").
		Select("Id").
		OrderBy("CreatedDate DESC").
		Limit(10).
		Offset(5).
		Build()
	require.NoError(t, err)
	assert.Equal(t, "SELECT Id FROM Account ORDER BY CreatedDate DESC LIMIT 10 OFFSET 5", soql)
}

func TestBuilder_RejectsUnsafeObjectName(t *testing.T) {
	_, err := query.New[account]("Account; DROP TABLE").Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sobject:")
}

func TestBuilder_Select_SilentlyDropsUnsafeFieldNames(t *testing.T) {
	soql, err := query.New[account]("Account").Select("Id", "Name; DROP", "Industry").Build()
	require.NoError(t, err)
	assert.Equal(t, "SELECT Id, Industry FROM Account", soql)
}

func TestBuilder_WhereEq_FormatsNonStringTypes(t *testing.T) {
	soql, err := query.New[account]("Account").
		Select("Id").
		WhereEq("IsActive", true).
		WhereEq("ParentId", nil).
		WhereEq("Amount", 42).
		Build()
	require.NoError(t, err)
	assert.Equal(t, "SELECT Id FROM Account WHERE IsActive = TRUE AND ParentId = NULL AND Amount = 42", soql)
}

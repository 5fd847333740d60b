package schemaguard

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productsXML = `<schema name="products">
  <fields>
    <field name="id" type="string"/>
    <field name="name_t" type="text_general"/>
    <dynamicField name="ma_*" type="string"/>
    <dynamicField name="*_dt" type="pdate"/>
  </fields>
  <uniqueKey>id</uniqueKey>
</schema>`

func productsSchema(t *testing.T) *Schema {
	t.Helper()
	s, err := ParseSchemaXML(strings.NewReader(productsXML))
	require.NoError(t, err)
	return s
}

func TestParseSchemaXML(t *testing.T) {
	s := productsSchema(t)

	assert.Equal(t, []Field{{Name: "id", Type: "string"}, {Name: "name_t", Type: "text_general"}}, s.Fields())
	assert.Equal(t, []DynamicField{{Pattern: "ma_*", Type: "string"}, {Pattern: "*_dt", Type: "pdate"}}, s.DynamicFields())
	key, ok := s.UniqueKey()
	assert.True(t, ok)
	assert.Equal(t, "id", key)

	assert.True(t, s.HasField("name_t"))
	assert.True(t, s.HasField("ma_color"))
	assert.True(t, s.HasField("created_dt"))
	assert.False(t, s.HasField("Name_t"))
}

func TestParseSchemaXML_Invalid(t *testing.T) {
	_, err := ParseSchemaXML(strings.NewReader(`<schema><dynamicField name="*a*" type="s"/></schema>`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSchema)
}

func TestNewSchema(t *testing.T) {
	s, err := NewSchema(
		[]Field{{Name: "id", Type: "string"}},
		[]DynamicField{{Pattern: "*_s", Type: "string"}},
		"",
	)
	require.NoError(t, err)
	_, ok := s.UniqueKey()
	assert.False(t, ok)
	assert.True(t, s.HasField("title_s"))
}

func TestNewSchema_Errors(t *testing.T) {
	_, err := NewSchema([]Field{{Name: "id"}, {Name: "id"}}, nil, "")
	assert.ErrorIs(t, err, ErrInvalidSchema, "duplicate field")

	_, err = NewSchema(nil, []DynamicField{{Pattern: "a_*_b"}}, "")
	assert.ErrorIs(t, err, ErrInvalidSchema, "wildcard in the middle")

	_, err = NewSchema([]Field{{Name: "id"}}, nil, "uid")
	assert.ErrorIs(t, err, ErrInvalidSchema, "unknown unique key")
}

func TestMappingBuilder(t *testing.T) {
	m, err := NewMapping().
		Document("Product").
		Property("ID", "id").UniqueKey().
		Property("Name", "name_t").
		Document("Category").
		Property("ID", "id").
		Build()
	require.NoError(t, err)
	assert.Equal(t, []string{"Product", "Category"}, m.DocumentTypes())
}

func TestMappingBuilder_Errors(t *testing.T) {
	tests := []struct {
		name  string
		build func() (*Mapping, error)
	}{
		{"empty document type", func() (*Mapping, error) {
			return NewMapping().Document("").Property("ID", "id").Build()
		}},
		{"duplicate property", func() (*Mapping, error) {
			return NewMapping().Document("P").Property("ID", "id").Property("ID", "id2").Build()
		}},
		{"unique key before property", func() (*Mapping, error) {
			return NewMapping().Document("P").UniqueKey().Property("ID", "id").Build()
		}},
		{"empty property id", func() (*Mapping, error) {
			return NewMapping().Document("P").Property("", "id").Build()
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidMapping)
		})
	}
}

func TestParseMapping(t *testing.T) {
	m, err := ParseMapping(strings.NewReader(`documents:
  - type: Product
    properties:
      - property: ID
        field: id
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"Product"}, m.DocumentTypes())

	_, err = ParseMapping(strings.NewReader("documents: []\n"))
	assert.ErrorIs(t, err, ErrInvalidMapping)
}

func TestValidate_Valid(t *testing.T) {
	m, err := NewMapping().
		Document("Product").
		Property("ID", "id").UniqueKey().
		Property("Name", "name_t").
		Property("Color", "ma_color").
		Property("Created", "created_dt").
		Property("Relevance", "score").
		Property("Attributes", "attr_*").
		Build()
	require.NoError(t, err)

	errs, err := Validate(productsSchema(t), m)
	require.NoError(t, err)
	assert.Empty(t, errs)
}

func TestValidate_MissingField(t *testing.T) {
	m, err := NewMapping().
		Document("Product").
		Property("ID", "id").
		Property("Title", "title").
		Property("Name", "Name_t").
		Build()
	require.NoError(t, err)

	errs, err := Validate(productsSchema(t), m)
	require.NoError(t, err)
	require.Len(t, errs, 2)

	assert.Equal(t, ValidationError{
		DocumentType: "Product",
		Rule:         "mapped_field_exists",
		PropertyID:   "Title",
		FieldName:    "title",
		Message:      "Title maps to field 'title', which does not exist in the index schema",
	}, errs[0])
	assert.Equal(t, "Name", errs[1].PropertyID)
	assert.Equal(t, errs[1].Message, errs[1].String())
}

func TestValidate_RuleOrder(t *testing.T) {
	m, err := NewMapping().
		Document("Product").
		Property("Key", "sku").UniqueKey().
		Build()
	require.NoError(t, err)

	errs, err := Validate(productsSchema(t), m)
	require.NoError(t, err)
	require.Len(t, errs, 2)
	assert.Equal(t, FieldExistsRule().Name(), errs[0].Rule)
	assert.Equal(t, UniqueKeyRule().Name(), errs[1].Rule)

	errs, err = Validate(productsSchema(t), m, WithRules(UniqueKeyRule()))
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "unique_key_mapped", errs[0].Rule)

	errs, err = Validate(productsSchema(t), m, WithRules())
	require.NoError(t, err)
	assert.Empty(t, errs)
}

func TestValidate_DocumentTypes(t *testing.T) {
	m, err := NewMapping().
		Document("Product").Property("ID", "id").
		Document("Order").Property("Total", "total").
		Build()
	require.NoError(t, err)

	errs, err := Validate(productsSchema(t), m, WithDocumentTypes("Product"))
	require.NoError(t, err)
	assert.Empty(t, errs)

	errs, err = Validate(productsSchema(t), m)
	require.NoError(t, err)
	require.Len(t, errs, 2)
	for _, e := range errs {
		assert.Equal(t, "Order", e.DocumentType)
	}

	_, err = Validate(productsSchema(t), m, WithDocumentTypes("Invoice"))
	assert.ErrorIs(t, err, ErrUnknownDocumentType)
}

func TestValidate_Unavailable(t *testing.T) {
	m, err := NewMapping().Document("Product").Property("ID", "id").Build()
	require.NoError(t, err)

	_, err = Validate(nil, m)
	assert.ErrorIs(t, err, ErrSchemaUnavailable)

	_, err = Validate(productsSchema(t), nil)
	assert.ErrorIs(t, err, ErrMappingUnavailable)

	_, err = Validate(productsSchema(t), m, WithRules(Rule{}))
	assert.Error(t, err)
}

package tenant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zulandar/yardplan/internal/testutil"
)

func TestSlugify(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Acme Corp", "acme-corp"},
		{"  Hello,   World! ", "hello-world"},
		{"R&D 2024", "r-d-2024"},
		{"already-slug", "already-slug"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), "Slugify(%q)", tt.in)
	}
}

func TestCreateOrganization(t *testing.T) {
	db := testutil.NewTestDB(t)

	org, err := CreateOrganization(db, "Acme Corp", "")
	require.NoError(t, err)
	assert.Equal(t, "acme-corp", org.Slug)
	assert.Len(t, org.ID, 36)

	byID, err := GetOrganization(db, org.ID)
	require.NoError(t, err)
	bySlug, err := GetOrganization(db, "acme-corp")
	require.NoError(t, err)
	assert.Equal(t, byID.ID, bySlug.ID)

	_, err = CreateOrganization(db, "Acme Corp", "")
	assert.Error(t, err, "duplicate slug")
}

func TestCreateOrganization_Invalid(t *testing.T) {
	db := testutil.NewTestDB(t)

	_, err := CreateOrganization(db, "", "")
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = CreateOrganization(db, "Acme", "Bad Slug")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestGetOrganization_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	_, err := GetOrganization(db, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCustomers_ScopedByOrganization(t *testing.T) {
	db := testutil.NewTestDB(t)
	acme, err := CreateOrganization(db, "Acme", "")
	require.NoError(t, err)
	globex, err := CreateOrganization(db, "Globex", "")
	require.NoError(t, err)

	c, err := CreateCustomer(db, acme.ID, "Initech", "ops@initech.test")
	require.NoError(t, err)
	_, err = CreateCustomer(db, globex.ID, "Umbrella", "")
	require.NoError(t, err)

	got, err := GetCustomer(db, acme.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Initech", got.Name)

	_, err = GetCustomer(db, globex.ID, c.ID)
	assert.ErrorIs(t, err, ErrNotFound, "customer of another tenant")

	list, err := ListCustomers(db, acme.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = CreateCustomer(db, "missing-org", "X", "")
	assert.ErrorIs(t, err, ErrNotFound)

	orgs, err := ListOrganizations(db)
	require.NoError(t, err)
	assert.Len(t, orgs, 2)
}

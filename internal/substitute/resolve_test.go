package substitute

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/brewcode/internal/model"
)

func yeastGroup(preferred ...int64) model.SubstituteGroup {
	isPreferred := make(map[int64]bool, len(preferred))
	for _, id := range preferred {
		isPreferred[id] = true
	}
	return model.SubstituteGroup{
		GroupID: 1,
		Name:    "Wine Yeast",
		Members: []model.SubstituteGroupMember{
			{GroupID: 1, ItemID: 10, ItemName: "EC-1118", IsPreferred: isPreferred[10]},
			{GroupID: 1, ItemID: 11, ItemName: "71B", IsPreferred: isPreferred[11]},
		},
	}
}

func TestResolveSpecificItem(t *testing.T) {
	res, err := Resolve(model.SelectItem(42), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(42), res.ItemID)
	assert.Nil(t, res.FromGroup)
}

func TestResolvePreferredMember(t *testing.T) {
	groups := map[int64]model.SubstituteGroup{1: yeastGroup(10)}

	res, err := Resolve(model.SelectGroup(1), groups)
	require.NoError(t, err)
	assert.Equal(t, int64(10), res.ItemID)
	assert.Equal(t, "EC-1118", res.ItemName)
	require.NotNil(t, res.FromGroup)
	assert.Equal(t, int64(1), *res.FromGroup)
}

func TestResolveNoPreferredIsAmbiguous(t *testing.T) {
	groups := map[int64]model.SubstituteGroup{1: yeastGroup()}

	_, err := Resolve(model.SelectGroup(1), groups)
	require.Error(t, err)
	assert.True(t, IsAmbiguous(err))

	var re *ResolveError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "Wine Yeast", re.GroupName)
	assert.Len(t, re.Candidates, 2, "all members offered as candidates")
}

func TestResolveMultiplePreferredIsAmbiguous(t *testing.T) {
	groups := map[int64]model.SubstituteGroup{1: yeastGroup(10, 11)}

	_, err := Resolve(model.SelectGroup(1), groups)
	require.Error(t, err)
	assert.True(t, IsAmbiguous(err))
}

func TestResolveEmptyGroup(t *testing.T) {
	groups := map[int64]model.SubstituteGroup{
		1: {GroupID: 1, Name: "Empty"},
	}

	_, err := Resolve(model.SelectGroup(1), groups)
	require.Error(t, err)

	var re *ResolveError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrCodeEmptyGroup, re.Code)
}

func TestResolveUnknownGroup(t *testing.T) {
	_, err := Resolve(model.SelectGroup(9), map[int64]model.SubstituteGroup{})
	require.Error(t, err)

	var re *ResolveError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrCodeUnknownGroup, re.Code)
}

func TestResolveInvalidSelection(t *testing.T) {
	_, err := Resolve(model.Selection{}, nil)
	require.Error(t, err)

	var re *ResolveError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrCodeInvalidSelection, re.Code)
	assert.False(t, IsAmbiguous(err))
}

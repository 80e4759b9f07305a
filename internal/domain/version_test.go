package domain

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareVersions(t *testing.T) {
	assert.Negative(t, CompareVersions("1.2.0", "1.10.0"))
	assert.Zero(t, CompareVersions("v1.0.0", "1.0.0"))
	assert.Zero(t, CompareVersions("^1.0.0", "1.0.0"))
	assert.Positive(t, CompareVersions("latest", "1.0.0"))
	assert.Negative(t, CompareVersions("1.0.0", "latest"))

	versions := []string{"latest", "2.0.0", "1.0.0-beta.1", "garbage", "1.0.0"}
	sort.Slice(versions, func(i, j int) bool { return CompareVersions(versions[i], versions[j]) < 0 })
	assert.Equal(t, []string{"1.0.0-beta.1", "1.0.0", "2.0.0", "garbage", "latest"}, versions)
}

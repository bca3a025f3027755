package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled} {
		assert.True(t, s.Valid(), "%s", s)
	}
	assert.False(t, Status("Archived").Valid())
	assert.False(t, Status("").Valid())
	assert.False(t, Status("pending").Valid(), "labels are case sensitive")
}

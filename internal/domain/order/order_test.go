package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusForPayment(t *testing.T) {
	assert.Equal(t, StatusPendingPayment, StatusForPayment(PaymentFull))
	assert.Equal(t, StatusPendingInstallment, StatusForPayment(PaymentInstallment))
	assert.Equal(t, StatusPendingPayment, StatusForPayment(""))
}

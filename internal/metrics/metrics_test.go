package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github/chapool/ledger-signer/internal/ledger"
	"github/chapool/ledger-signer/internal/metrics"
)

func TestObserverCounters(t *testing.T) {
	m := metrics.New()

	m.ObserveSessionInit(nil)
	m.ObserveSessionInit(assert.AnError)
	m.ObserveAttempt("sign_transaction", ledger.OutcomeLocked)
	m.ObserveAttempt("sign_transaction", ledger.OutcomeLocked)
	m.ObserveAttempt("sign_transaction", ledger.OutcomeSuccess)
	m.TransactionSigned()

	count, err := testutil.GatherAndCount(m.Registry(),
		"ledger_signer_session_init_total",
		"ledger_signer_device_attempts_total",
		"ledger_signer_transactions_signed_total",
	)
	assert.NoError(t, err)
	assert.Equal(t, 5, count)
}

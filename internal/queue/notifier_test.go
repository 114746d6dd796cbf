package queue

import (
	"bytes"
	"context"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/table-reservation/internal/model"
)

func sampleReservation() model.Reservation {
	n := 3
	return model.Reservation{
		ID:            "r1",
		UserID:        "2",
		CustomerName:  "João Silva",
		CustomerEmail: "joao@email.com",
		Date:          "2024-05-27",
		Time:          "19:30",
		Guests:        4,
		TableNumber:   &n,
		AmountCents:   1050,
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "R$ 10.00", FormatAmount(1000))
	assert.Equal(t, "R$ 0.05", FormatAmount(5))
	assert.Equal(t, "R$ -1.50", FormatAmount(-150))
}

func TestMessages(t *testing.T) {
	ev := EventFrom(sampleReservation())
	lines := ConfirmationMessage(ev)
	require.Len(t, lines, 3)
	assert.Equal(t, "Confirmation email sent to joao@email.com", lines[0])
	assert.Equal(t, "Reservation confirmed for João Silva - Table 3 - 2024-05-27 at 19:30", lines[1])
	assert.Equal(t, "Amount paid: R$ 10.50", lines[2])

	assert.Equal(t, "Reservation cancelled - refund of R$ 10.50 processed for joao@email.com", RefundMessage(ev))

	ev.TableNumber = nil
	assert.Contains(t, ConfirmationMessage(ev)[1], "Table unassigned")
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(log.New(&buf, "", 0))

	require.NoError(t, n.ReservationConfirmed(context.Background(), sampleReservation()))
	require.NoError(t, n.ReservationRefunded(context.Background(), sampleReservation()))

	out := buf.String()
	assert.Contains(t, out, "notify: Confirmation email sent to joao@email.com\n")
	assert.Contains(t, out, "notify: Amount paid: R$ 10.50\n")
	assert.Contains(t, out, "notify: Reservation cancelled - refund of R$ 10.50")
}

type failingNotifier struct{ calls int }

func (f *failingNotifier) ReservationConfirmed(context.Context, model.Reservation) error {
	f.calls++
	return errors.New("confirm failed")
}

func (f *failingNotifier) ReservationRefunded(context.Context, model.Reservation) error {
	f.calls++
	return errors.New("refund failed")
}

func TestMultiNotifierTriesEverySink(t *testing.T) {
	var buf bytes.Buffer
	first, last := &failingNotifier{}, &failingNotifier{}
	m := MultiNotifier{first, NewLogNotifier(log.New(&buf, "", 0)), last}

	err := m.ReservationConfirmed(context.Background(), sampleReservation())
	require.Error(t, err)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, last.calls)
	assert.NotEmpty(t, buf.String())

	assert.NoError(t, MultiNotifier{NewLogNotifier(log.New(&buf, "", 0))}.ReservationRefunded(context.Background(), sampleReservation()))
}

package repository

import (
	"context"
	"errors"
	"time"

	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/utils"
)

// DefaultSettings is the configuration a fresh process starts with:
// dinner service from 18:00 to 23:00 in half-hour slots, six tables.
func DefaultSettings() model.Settings {
	return model.Settings{
		OpeningTime:           "18:00",
		ClosingTime:           "23:00",
		SlotDuration:          30,
		ReservationPriceCents: 1000,
		Tables: []model.Table{
			{ID: "1", Number: 1, Capacity: 4, IsAvailable: true},
			{ID: "2", Number: 2, Capacity: 2, IsAvailable: true},
			{ID: "3", Number: 3, Capacity: 6, IsAvailable: true},
			{ID: "4", Number: 4, Capacity: 4, IsAvailable: true},
			{ID: "5", Number: 5, Capacity: 8, IsAvailable: true},
			{ID: "6", Number: 6, Capacity: 2, IsAvailable: true},
		},
	}
}

// DemoReservations returns two paid reservations for the demo customer.
func DemoReservations() []model.Reservation {
	one, three := 1, 3
	return []model.Reservation{
		{
			ID:            "1",
			UserID:        "2",
			CustomerName:  "João Silva",
			CustomerEmail: "joao@email.com",
			CustomerPhone: "(11) 98888-8888",
			Date:          "2024-05-27",
			Time:          "19:30",
			Guests:        4,
			TableNumber:   &one,
			Status:        model.StatusConfirmed,
			CreatedAt:     time.Date(2024, 5, 26, 10, 0, 0, 0, time.UTC),
			PaymentStatus: model.PaymentPaid,
			AmountCents:   1000,
		},
		{
			ID:            "2",
			UserID:        "2",
			CustomerName:  "João Silva",
			CustomerEmail: "joao@email.com",
			CustomerPhone: "(11) 98888-8888",
			Date:          "2024-05-25",
			Time:          "20:00",
			Guests:        2,
			TableNumber:   &three,
			Status:        model.StatusConfirmed,
			CreatedAt:     time.Date(2024, 5, 24, 15, 30, 0, 0, time.UTC),
			PaymentStatus: model.PaymentPaid,
			AmountCents:   1000,
		},
	}
}

type demoUser struct {
	id string
	nu model.NewUser
}

var demoUsers = []demoUser{
	{"1", model.NewUser{Name: "Admin User", Email: "admin@restaurant.com", Phone: "(11) 99999-9999", Role: model.RoleAdmin, Password: "admin123"}},
	{"2", model.NewUser{Name: "João Silva", Email: "joao@email.com", Phone: "(11) 98888-8888", Role: model.RoleCustomer, Password: "123456"}},
}

// SeedDemoUsers registers the demo administrator and customer.  Users
// that already exist are skipped.  The in-memory store keeps the fixed
// IDs the demo reservations refer to.
func SeedDemoUsers(ctx context.Context, users UserStore, cost int) error {
	for _, d := range demoUsers {
		var err error
		if mem, ok := users.(*MemoryUserRepo); ok {
			var hash string
			hash, err = utils.HashPassword(d.nu.Password, cost)
			if err != nil {
				return err
			}
			err = mem.Put(model.User{
				ID: d.id, Name: d.nu.Name, Email: d.nu.Email, Phone: d.nu.Phone,
				Role: d.nu.Role, PasswordHash: hash, CreatedAt: time.Now().UTC(),
			})
		} else {
			_, err = users.Create(ctx, d.nu, cost)
		}
		if err != nil && !errors.Is(err, ErrEmailExists) {
			return err
		}
	}
	return nil
}

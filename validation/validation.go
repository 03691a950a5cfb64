package validation

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"hotel-desk/apperrors"
	"hotel-desk/models"
)

// DateLayout is the wire format for check-in and check-out dates.
const DateLayout = "2006-01-02"

var (
	once     sync.Once
	validate *validator.Validate
)

func engine() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("roomtype", func(fl validator.FieldLevel) bool {
			return models.RoomType(fl.Field().String()).Valid()
		})
		_ = validate.RegisterValidation("paymentstatus", func(fl validator.FieldLevel) bool {
			return models.PaymentStatus(fl.Field().String()).Valid()
		})
		_ = validate.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
			_, err := time.Parse(DateLayout, fl.Field().String())
			return err == nil
		})
	})
	return validate
}

type roomRules struct {
	RoomNumber string `validate:"required,max=50"`
	RoomType   string `validate:"roomtype"`
}

type bookingRules struct {
	GuestName     string `validate:"required,max=255"`
	CheckIn       string `validate:"isodate"`
	CheckOut      string `validate:"isodate"`
	PaymentStatus string `validate:"paymentstatus"`
}

// Room validates admin input for a room. Both fields are trimmed first.
func Room(number, roomType string) (string, models.RoomType, error) {
	number = strings.TrimSpace(number)
	roomType = strings.TrimSpace(roomType)
	err := check(roomRules{RoomNumber: number, RoomType: roomType}, map[string]fieldInfo{
		"RoomNumber": {"room_number", "Room number is required and at most 50 characters."},
		"RoomType":   {"room_type", "Invalid room type."},
	})
	if err != nil {
		return "", "", err
	}
	return number, models.RoomType(roomType), nil
}

// RoomType validates a requested room type on its own.
func RoomType(roomType string) (models.RoomType, error) {
	t := models.RoomType(strings.TrimSpace(roomType))
	if !t.Valid() {
		return "", apperrors.Validation(map[string]string{"roomType": "Invalid room type."})
	}
	return t, nil
}

// Stay is a validated guest stay.
type Stay struct {
	GuestName     string
	CheckIn       time.Time
	CheckOut      time.Time
	PaymentStatus models.PaymentStatus
}

// BookingFields validates the editable fields shared by allocation and
// update. An empty payment status means pending. When enforceOrder is
// set, check-out before check-in is rejected.
func BookingFields(guestName, checkIn, checkOut, paymentStatus string, enforceOrder bool) (Stay, error) {
	guestName = strings.TrimSpace(guestName)
	checkIn = strings.TrimSpace(checkIn)
	checkOut = strings.TrimSpace(checkOut)
	paymentStatus = strings.TrimSpace(paymentStatus)
	if paymentStatus == "" {
		paymentStatus = string(models.PaymentPending)
	}

	err := check(bookingRules{
		GuestName:     guestName,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		PaymentStatus: paymentStatus,
	}, map[string]fieldInfo{
		"GuestName":     {"guestName", "Guest name is required and at most 255 characters."},
		"CheckIn":       {"checkIn", "Check-in must be a date (YYYY-MM-DD)."},
		"CheckOut":      {"checkOut", "Check-out must be a date (YYYY-MM-DD)."},
		"PaymentStatus": {"paymentStatus", "Payment status must be pending or paid."},
	})
	if err != nil {
		return Stay{}, err
	}

	in, _ := time.Parse(DateLayout, checkIn)
	out, _ := time.Parse(DateLayout, checkOut)
	if enforceOrder && out.Before(in) {
		return Stay{}, apperrors.Validation(map[string]string{
			"checkOut": "Check-out cannot be before check-in.",
		})
	}

	return Stay{
		GuestName:     guestName,
		CheckIn:       in,
		CheckOut:      out,
		PaymentStatus: models.PaymentStatus(paymentStatus),
	}, nil
}

type fieldInfo struct {
	name    string
	message string
}

func check(v any, fields map[string]fieldInfo) error {
	err := engine().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.Validation(map[string]string{"input": err.Error()})
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		info, ok := fields[fe.Field()]
		if !ok {
			out[fe.Field()] = fe.Error()
			continue
		}
		out[info.name] = info.message
	}
	return apperrors.Validation(out)
}

type signupRules struct {
	Username string `validate:"required,max=150"`
	Password string `validate:"required,min=6"`
	Confirm  string `validate:"required,eqfield=Password"`
}

// maxPasswordBytes is the longest input bcrypt will hash.
const maxPasswordBytes = 72

// Signup checks a registration form. Passwords are not trimmed.
func Signup(username, password, confirm string) (string, error) {
	username = strings.TrimSpace(username)
	if len(password) > maxPasswordBytes {
		return "", apperrors.Validation(map[string]string{
			"password": "Password must be at most 72 bytes.",
		})
	}
	err := check(signupRules{Username: username, Password: password, Confirm: confirm}, map[string]fieldInfo{
		"Username": {"username", "Username is required."},
		"Password": {"password", "Password must be at least 6 characters."},
		"Confirm":  {"confirmPassword", "Passwords do not match."},
	})
	if err != nil {
		return "", err
	}
	return username, nil
}

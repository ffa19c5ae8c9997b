package model

import (
	"time"

	"CareerBot/wizard"
)

// Time slots a mock interview can be booked in.
const (
	SlotMorning   = "MORNING"
	SlotAfternoon = "AFTERNOON"
	SlotEvening   = "EVENING"
)

// TimeSlots lists the bookable times per slot.
var TimeSlots = map[string][]string{
	SlotMorning:   {"10:00 AM", "10:30 AM", "11:00 AM"},
	SlotAfternoon: {"11:30 AM", "12:00 PM", "12:30 PM"},
	SlotEvening:   {"12:00 PM", "12:30 PM"},
}

// BookingWindowDays is how far ahead an interview can be booked.
const BookingWindowDays = 7

type BookingRole struct {
	Role string `json:"role"`
}

func (BookingRole) Step() wizard.StepID { return StepRole }

type BookingSchedule struct {
	Date     string `json:"date"` // YYYY-MM-DD
	TimeSlot string `json:"timeSlot"`
	Time     string `json:"time"`
}

func (BookingSchedule) Step() wizard.StepID { return StepSchedule }

type BookingSkills struct {
	PrimarySkills   []string `json:"primarySkills"`
	SecondarySkills []string `json:"secondarySkills,omitempty"`
	YearsExp        int      `json:"yearsExp"`
	MonthsExp       int      `json:"monthsExp"`
	ResumeIndex     int      `json:"resumeIndex"`
}

func (BookingSkills) Step() wizard.StepID { return StepInterviewSkills }

type BookingPayment struct {
	Confirmed bool `json:"confirmed"`
}

func (BookingPayment) Step() wizard.StepID { return StepPayment }

// Booking is the stored result of a completed mock interview booking.
type Booking struct {
	ID          string          `json:"id"`
	InterviewID string          `json:"interviewID"`
	UserID      int64           `json:"userid"`
	CreatedAt   time.Time       `json:"createdAt"`
	Role        BookingRole     `json:"role"`
	Schedule    BookingSchedule `json:"schedule"`
	Skills      BookingSkills   `json:"skills"`
}

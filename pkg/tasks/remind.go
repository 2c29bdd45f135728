package tasks

import "time"

// ComputeRemindAt turns a due date and reminder policy into an absolute fire
// time in local wall-clock time. It returns nil when there is no due date,
// no policy, or the date does not parse.
func ComputeRemindAt(dueDate string, rt ReminderType) *time.Time {
	return ComputeRemindAtIn(dueDate, rt, time.Local)
}

// ComputeRemindAtIn is ComputeRemindAt for an explicit location.
func ComputeRemindAtIn(dueDate string, rt ReminderType, loc *time.Location) *time.Time {
	if dueDate == "" {
		return nil
	}
	due, err := time.ParseInLocation(DateLayout, dueDate, loc)
	if err != nil {
		return nil
	}

	var at time.Time
	switch rt {
	case ReminderSameDay09:
		at = time.Date(due.Year(), due.Month(), due.Day(), 9, 0, 0, 0, loc)
	case ReminderSameDay18:
		at = time.Date(due.Year(), due.Month(), due.Day(), 18, 0, 0, 0, loc)
	case ReminderOneDayBefore18:
		at = time.Date(due.Year(), due.Month(), due.Day()-1, 18, 0, 0, 0, loc)
	default:
		return nil
	}
	return &at
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

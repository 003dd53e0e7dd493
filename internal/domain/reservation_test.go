package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	all := []ReservationStatus{
		ReservationStatusPending,
		ReservationStatusConfirmed,
		ReservationStatusInHouse,
		ReservationStatusCheckedOut,
		ReservationStatusCancelled,
		ReservationStatusNoShow,
	}

	allowed := map[ReservationStatus]map[ReservationStatus]bool{
		ReservationStatusPending: {
			ReservationStatusConfirmed: true,
			ReservationStatusInHouse:   true,
			ReservationStatusCancelled: true,
			ReservationStatusNoShow:    true,
		},
		ReservationStatusConfirmed: {
			ReservationStatusInHouse:   true,
			ReservationStatusCancelled: true,
			ReservationStatusNoShow:    true,
		},
		ReservationStatusInHouse: {
			ReservationStatusCheckedOut: true,
		},
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[from][to]
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestTerminalStatusesHaveNoExits(t *testing.T) {
	terminal := []ReservationStatus{
		ReservationStatusCheckedOut,
		ReservationStatusCancelled,
		ReservationStatusNoShow,
	}
	targets := []ReservationStatus{
		ReservationStatusPending,
		ReservationStatusConfirmed,
		ReservationStatusInHouse,
		ReservationStatusCheckedOut,
		ReservationStatusCancelled,
		ReservationStatusNoShow,
	}
	for _, from := range terminal {
		for _, to := range targets {
			assert.False(t, CanTransition(from, to), "%s must be terminal", from)
		}
	}
}

func TestTargetStatusFor(t *testing.T) {
	cases := map[TransitionAction]ReservationStatus{
		ActionConfirm:    ReservationStatusConfirmed,
		ActionCheckIn:    ReservationStatusInHouse,
		ActionCheckOut:   ReservationStatusCheckedOut,
		ActionCancel:     ReservationStatusCancelled,
		ActionMarkNoShow: ReservationStatusNoShow,
	}
	for action, want := range cases {
		got, ok := TargetStatusFor(action)
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}

	_, ok := TargetStatusFor(TransitionAction("teleport"))
	assert.False(t, ok)
}

func TestIsActiveStatus(t *testing.T) {
	assert.True(t, IsActiveStatus(ReservationStatusPending))
	assert.True(t, IsActiveStatus(ReservationStatusConfirmed))
	assert.True(t, IsActiveStatus(ReservationStatusInHouse))
	assert.False(t, IsActiveStatus(ReservationStatusCheckedOut))
	assert.False(t, IsActiveStatus(ReservationStatusCancelled))
	assert.False(t, IsActiveStatus(ReservationStatusNoShow))
}

package store_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskportal/pkg/store"
)

func newTestUIStore() *store.UIStore {
	ui := store.NewUIStore()
	ui.SetAutoDismiss(0)
	return ui
}

func TestUIStoreNotifications(t *testing.T) {
	ui := newTestUIStore()

	errID := ui.ShowError("save failed")
	infoID := ui.ShowInfo("loaded 3 risks")
	gt.Bool(t, errID != "").True()
	gt.Bool(t, errID != infoID).True()

	notifications := ui.Notifications()
	gt.Array(t, notifications).Length(2)
	gt.Value(t, notifications[0].Level).Equal(store.NotificationError)
	gt.Value(t, notifications[0].Message).Equal("save failed")
	gt.Value(t, notifications[1].Level).Equal(store.NotificationInfo)

	ui.Dismiss(errID)
	notifications = ui.Notifications()
	gt.Array(t, notifications).Length(1)
	gt.Value(t, notifications[0].ID).Equal(infoID)

	// Dismissing an unknown ID is a no-op
	ui.Dismiss("no-such-id")
	gt.Array(t, ui.Notifications()).Length(1)
}

func TestUIStoreModals(t *testing.T) {
	ui := newTestUIStore()

	gt.Bool(t, ui.IsModalOpen("risk-editor")).False()

	ui.OpenModal("risk-editor")
	gt.Bool(t, ui.IsModalOpen("risk-editor")).True()
	gt.Bool(t, ui.IsModalOpen("control-editor")).False()

	ui.CloseModal("risk-editor")
	gt.Bool(t, ui.IsModalOpen("risk-editor")).False()
}

func TestUIStoreLoadingCounter(t *testing.T) {
	ui := newTestUIStore()

	gt.Bool(t, ui.IsLoading()).False()

	ui.BeginLoading()
	ui.BeginLoading()
	gt.Bool(t, ui.IsLoading()).True()

	ui.EndLoading()
	gt.Bool(t, ui.IsLoading()).True()
	ui.EndLoading()
	gt.Bool(t, ui.IsLoading()).False()

	// The counter never goes negative
	ui.EndLoading()
	ui.BeginLoading()
	gt.Bool(t, ui.IsLoading()).True()
}

func TestUIStoreSubscribe(t *testing.T) {
	ui := newTestUIStore()

	var calls int
	unsubscribe := ui.Subscribe(func() { calls++ })

	id := ui.ShowSuccess("created")
	gt.Bool(t, calls > 0).True()

	before := calls
	unsubscribe()
	ui.Dismiss(id)
	gt.Value(t, calls).Equal(before)
}

package main

import (
	"testing"
)

func TestAnalyticsStopFlushes(t *testing.T) {
	db := openTestDB(t)
	a := NewAnalytics(db)

	a.Track(EvtRunStart, "ACE", "s1", nil)
	a.Track(EvtPurchase, "ACE", "s1", map[string]interface{}{"id": "dmg", "cost": 15})
	a.Track(EvtPurchase, "", "s2", map[string]interface{}{"id": "dmg", "cost": 45})
	a.Track(EvtPurchase, "", "s2", map[string]interface{}{"id": "heal", "cost": 20})
	a.Stop()

	counts, err := a.EventCounts(1)
	if err != nil {
		t.Fatal(err)
	}
	if counts[EvtRunStart] != 1 || counts[EvtPurchase] != 3 {
		t.Errorf("counts = %v", counts)
	}

	top, err := a.PopularPurchases(5)
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 2 || top[0] != (ItemAnalytics{"dmg", 2}) || top[1] != (ItemAnalytics{"heal", 1}) {
		t.Errorf("purchases = %+v", top)
	}
}

func TestAnalyticsLiveMetrics(t *testing.T) {
	a := NewAnalytics(nil)
	defer a.Stop()

	a.SetActiveSessions(3)
	if s, d := a.LiveMetrics(); s != 3 || d != 0 {
		t.Errorf("LiveMetrics = %d, %d", s, d)
	}
}

func TestAnalyticsNilSafe(t *testing.T) {
	var a *Analytics
	a.Track(EvtRunEnd, "ACE", "s", nil)
	a.SetActiveSessions(1)
}

func TestAnalyticsWithoutDB(t *testing.T) {
	a := NewAnalytics(nil)
	a.Track(EvtRunEnd, "", "s", map[string]int{"wave": 2})
	a.Stop()
	if counts, err := a.EventCounts(1); counts != nil || err != nil {
		t.Errorf("EventCounts without a db = %v, %v", counts, err)
	}
}

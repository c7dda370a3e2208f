package engine

import "testing"

func TestAccessRequestConflictsOnWrite(t *testing.T) {
	a := AccessRequest{Components: []Access{{TypeID: 1, Mode: AccessWrite}}}
	b := AccessRequest{Components: []Access{{TypeID: 1, Mode: AccessRead}}}
	if !a.ConflictsWith(b) {
		t.Errorf("expected conflict between a writer and a reader of the same type")
	}
}

func TestAccessRequestNoConflictOnSharedReads(t *testing.T) {
	a := AccessRequest{Components: []Access{{TypeID: 1, Mode: AccessRead}}}
	b := AccessRequest{Components: []Access{{TypeID: 1, Mode: AccessRead}}}
	if a.ConflictsWith(b) {
		t.Errorf("two readers of the same type should never conflict")
	}
}

func TestAccessRequestExclusiveWorldConflictsWithEverything(t *testing.T) {
	a := AccessRequest{ExclusiveWorld: true}
	b := AccessRequest{}
	if !a.ConflictsWith(b) {
		t.Errorf("exclusive world access should conflict with an empty access set")
	}
}

func TestAccessRequestResourceConflict(t *testing.T) {
	a := AccessRequest{Resources: []ResourceAccess{{Key: "producer:damageEvent", Mode: AccessWrite}}}
	b := AccessRequest{Resources: []ResourceAccess{{Key: "producer:damageEvent", Mode: AccessWrite}}}
	if !a.ConflictsWith(b) {
		t.Errorf("two producers of the same event type should conflict")
	}

	c := AccessRequest{Resources: []ResourceAccess{{Key: "consumer:damageEvent", Mode: AccessRead}}}
	if a.ConflictsWith(c) {
		t.Errorf("a producer and a consumer of the same event type should never conflict")
	}
}

func TestAccessRequestEqual(t *testing.T) {
	a := AccessRequest{Components: []Access{{TypeID: 1, Mode: AccessWrite}, {TypeID: 2, Mode: AccessRead}}}
	b := AccessRequest{Components: []Access{{TypeID: 2, Mode: AccessRead}, {TypeID: 1, Mode: AccessWrite}}}
	if !a.Equal(b) {
		t.Errorf("Equal should ignore ordering within the access slice")
	}
}

package medhistory

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/gouthelper/gouthelper/pkg/clinical"
)

type mhKey struct {
	pid uuid.UUID
	t   clinical.MHType
}

type mockRepo struct {
	store map[mhKey]*MedicalHistory
}

func newMockRepo() *mockRepo { return &mockRepo{store: make(map[mhKey]*MedicalHistory)} }
func (m *mockRepo) Upsert(_ context.Context, mh *MedicalHistory) error {
	if mh.ID == uuid.Nil {
		mh.ID = uuid.New()
	}
	m.store[mhKey{mh.PatientID, mh.Type}] = mh
	return nil
}
func (m *mockRepo) GetByPatientAndType(_ context.Context, pid uuid.UUID, t clinical.MHType) (*MedicalHistory, error) {
	mh, ok := m.store[mhKey{pid, t}]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return mh, nil
}
func (m *mockRepo) ListByPatient(_ context.Context, pid uuid.UUID) ([]*MedicalHistory, error) {
	var result []*MedicalHistory
	for k, mh := range m.store {
		if k.pid == pid {
			result = append(result, mh)
		}
	}
	return result, nil
}
func (m *mockRepo) Delete(_ context.Context, pid uuid.UUID, t clinical.MHType) error {
	delete(m.store, mhKey{pid, t})
	return nil
}

func TestSet_OneRecordPerCondition(t *testing.T) {
	svc := NewService(newMockRepo(), nil)
	patientID := uuid.New()

	first, err := svc.Set(context.Background(), nil, patientID, Edit{Type: clinical.MHCKD, HistoryOf: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := svc.Set(context.Background(), nil, patientID, Edit{Type: clinical.MHCKD, HistoryOf: false})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if second.ID != first.ID {
		t.Error("same condition should reuse the record")
	}

	entries, err := svc.List(context.Background(), patientID)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	if entries[0].HistoryOf {
		t.Error("history_of should have been overwritten to false")
	}
}

func TestSet_RejectsUnknownCondition(t *testing.T) {
	svc := NewService(newMockRepo(), nil)
	_, err := svc.Set(context.Background(), nil, uuid.New(), Edit{Type: clinical.MHType("LUMBAGO")})
	if err == nil {
		t.Fatal("expected rejection of unknown condition")
	}
}

func TestRemove(t *testing.T) {
	svc := NewService(newMockRepo(), nil)
	patientID := uuid.New()

	if _, err := svc.Set(context.Background(), nil, patientID, Edit{Type: clinical.MHMenopause, HistoryOf: true}); err != nil {
		t.Fatal(err)
	}
	if err := svc.Remove(context.Background(), nil, patientID, clinical.MHMenopause); err != nil {
		t.Fatalf("remove: %v", err)
	}
	entries, _ := svc.List(context.Background(), patientID)
	if len(entries) != 0 {
		t.Error("condition should be gone")
	}
}

func TestLabels(t *testing.T) {
	mh := &MedicalHistory{Type: clinical.MHCKD}
	if mh.Label() == "" {
		t.Error("known condition should have a display label")
	}
}

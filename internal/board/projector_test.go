package board

import (
	"testing"

	"github.com/alexanderramin/incidentboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject_GroupsByStatusInFetchOrder(t *testing.T) {
	p := Project([]domain.Incident{
		incident(5, domain.StatusResolved),
		incident(1, domain.StatusPending),
		incident(9, domain.StatusInProgress),
		incident(2, domain.StatusPending),
	})

	assert.Equal(t, []int64{1, 2}, ids(p.Column(domain.StatusPending)))
	assert.Equal(t, []int64{9}, ids(p.Column(domain.StatusInProgress)))
	assert.Equal(t, []int64{5}, ids(p.Column(domain.StatusResolved)))
	assert.Equal(t, domain.Statuses, p.Statuses())
}

func TestProject_DropsUnrecognizedStatus(t *testing.T) {
	incs := []domain.Incident{
		incident(1, domain.StatusPending),
		incident(2, "Cerrado"),
	}
	p := Project(incs)

	assert.Equal(t, 1, p.Len())
	_, _, ok := p.Locate(2)
	assert.False(t, ok)
}

func TestProject_PartitionIsTotalAndDisjoint(t *testing.T) {
	statuses := []domain.Status{domain.StatusPending, domain.StatusInProgress, domain.StatusResolved, "??"}
	var incs []domain.Incident
	for i := int64(1); i <= 40; i++ {
		incs = append(incs, incident(i, statuses[int(i*7)%len(statuses)]))
	}
	p := Project(incs)

	seen := map[int64]int{}
	for _, s := range p.Statuses() {
		for _, inc := range p.Column(s) {
			assert.Equal(t, s, inc.Status)
			seen[inc.ID]++
		}
	}
	for _, inc := range incs {
		if inc.Status.Valid() {
			assert.Equal(t, 1, seen[inc.ID], "incident #%d", inc.ID)
		} else {
			assert.Zero(t, seen[inc.ID], "incident #%d", inc.ID)
		}
	}
}

func TestProject_EmptyColumnsExist(t *testing.T) {
	p := Project(nil)
	for _, s := range domain.Statuses {
		assert.Empty(t, p.Column(s))
	}
	assert.Zero(t, p.Len())
}

func TestPartition_Locate(t *testing.T) {
	p := Project([]domain.Incident{
		incident(1, domain.StatusPending),
		incident(2, domain.StatusPending),
		incident(3, domain.StatusResolved),
	})
	status, idx, ok := p.Locate(2)
	require.True(t, ok)
	assert.Equal(t, domain.StatusPending, status)
	assert.Equal(t, 1, idx)
}

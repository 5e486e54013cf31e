package model

// Status состояние снимка расписания
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// Snapshot состояние одного расписания в памяти.
// Читатели всегда получают копию, изменять её безопасно.
type Snapshot struct {
	TimetableID string
	Lectures    []Lecture
	Status      Status
	Err         error // причина, если Status == StatusFailed
}

// Lecture ищет лекцию по id
func (s Snapshot) Lecture(id string) (Lecture, bool) {
	for _, l := range s.Lectures {
		if l.ID == id {
			return l, true
		}
	}
	return Lecture{}, false
}

// TotalCredits сумма кредитов всех лекций
func (s Snapshot) TotalCredits() int {
	total := 0
	for _, l := range s.Lectures {
		total += l.Credit
	}
	return total
}

// Clone копия со своими слайсами
func (s Snapshot) Clone() Snapshot {
	c := s
	if s.Lectures != nil {
		c.Lectures = make([]Lecture, len(s.Lectures))
		for i, l := range s.Lectures {
			c.Lectures[i] = l.Clone()
		}
	}
	return c
}

package homework

// Status is the review verdict key reported by the Practicum API.
type Status string

const (
	StatusApproved  Status = "approved"
	StatusReviewing Status = "reviewing"
	StatusRejected  Status = "rejected"
)

// NoNewStatuses is sent when the API returns an empty homework list.
const NoNewStatuses = "Нет новых статусов"

const statusChangedTemplate = `Изменился статус проверки работы "%s". %s`

// Verdicts maps every recognised status to its display text.
// The zero value recognises nothing; build one with NewVerdicts or DefaultVerdicts.
type Verdicts struct {
	table map[Status]string
}

// NewVerdicts copies table so later changes by the caller do not leak in.
func NewVerdicts(table map[Status]string) Verdicts {
	cp := make(map[Status]string, len(table))
	for k, v := range table {
		cp[k] = v
	}
	return Verdicts{table: cp}
}

// DefaultVerdicts returns the verdict table used by the Practicum homework API.
func DefaultVerdicts() Verdicts {
	return NewVerdicts(map[Status]string{
		StatusApproved:  "Работа проверена: ревьюеру всё понравилось. Ура!",
		StatusReviewing: "Работа взята на проверку ревьюером.",
		StatusRejected:  "Работа проверена: у ревьюера есть замечания.",
	})
}

// Lookup returns the verdict text for s.
func (v Verdicts) Lookup(s Status) (string, bool) {
	text, ok := v.table[s]
	return text, ok
}

package service

import (
	"math"
	"sort"
	"strings"

	"github.com/spec-kit/intent-score/internal/domain"
)

// LeadSortKey names a sortable lead column.
type LeadSortKey string

const (
	SortByRerankedScore    LeadSortKey = "rerankedScore"
	SortByInitialScore     LeadSortKey = "initialScore"
	SortByCreditScore      LeadSortKey = "creditScore"
	SortByIncome           LeadSortKey = "income"
	SortByEmail            LeadSortKey = "email"
	SortByPhoneNumber      LeadSortKey = "phoneNumber"
	SortByAgeGroup         LeadSortKey = "ageGroup"
	SortByFamilyBackground LeadSortKey = "familyBackground"
	SortByCreatedAt        LeadSortKey = "createdAt"
)

// SortDirection orders query results.
type SortDirection string

const (
	SortAscending  SortDirection = "ascending"
	SortDescending SortDirection = "descending"
)

// LeadQuery filters and orders the lead table.
type LeadQuery struct {
	Search    string
	SortBy    LeadSortKey
	Direction SortDirection
}

// LeadStats summarises the collection for the dashboard.
type LeadStats struct {
	Total                int `json:"total"`
	AverageInitialScore  int `json:"averageInitialScore"`
	AverageRerankedScore int `json:"averageRerankedScore"`
}

// ParseSortKey resolves a column name, defaulting to the reranked score.
func ParseSortKey(raw string) (LeadSortKey, bool) {
	if raw == "" {
		return SortByRerankedScore, true
	}
	key := LeadSortKey(raw)
	if _, ok := sortAccessors[key]; !ok {
		return "", false
	}
	return key, true
}

// ParseSortDirection accepts asc/ascending and desc/descending, defaulting to descending.
func ParseSortDirection(raw string) (SortDirection, bool) {
	switch strings.ToLower(raw) {
	case "":
		return SortDescending, true
	case "asc", "ascending":
		return SortAscending, true
	case "desc", "descending":
		return SortDescending, true
	default:
		return "", false
	}
}

// Query returns the leads matching q.Search, ordered by q.SortBy.
// Leads without a value for the sort column always come last.
func (s *LeadStore) Query(q LeadQuery) []domain.Lead {
	leads := s.Leads()

	term := strings.ToLower(strings.TrimSpace(q.Search))
	filtered := leads[:0]
	for _, lead := range leads {
		if term == "" || matchesSearch(lead, term) {
			filtered = append(filtered, lead)
		}
	}

	key := q.SortBy
	if key == "" {
		key = SortByRerankedScore
	}
	accessor, ok := sortAccessors[key]
	if !ok {
		return filtered
	}
	descending := q.Direction != SortAscending

	sort.SliceStable(filtered, func(i, j int) bool {
		a, b := accessor(filtered[i]), accessor(filtered[j])
		if a.missing || b.missing {
			return !a.missing && b.missing
		}
		if descending {
			return b.less(a)
		}
		return a.less(b)
	})
	return filtered
}

// Stats reports the collection size and rounded score averages; unscored
// leads count as zero.
func (s *LeadStore) Stats() LeadStats {
	leads := s.Leads()
	if len(leads) == 0 {
		return LeadStats{}
	}
	var initialSum, rerankedSum int
	for _, lead := range leads {
		if lead.InitialScore != nil {
			initialSum += *lead.InitialScore
		}
		if lead.RerankedScore != nil {
			rerankedSum += *lead.RerankedScore
		}
	}
	n := float64(len(leads))
	return LeadStats{
		Total:                len(leads),
		AverageInitialScore:  int(math.Round(float64(initialSum) / n)),
		AverageRerankedScore: int(math.Round(float64(rerankedSum) / n)),
	}
}

func matchesSearch(lead domain.Lead, term string) bool {
	fields := []string{
		lead.Email,
		lead.PhoneNumber,
		lead.Comments,
		string(lead.AgeGroup),
		string(lead.FamilyBackground),
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

type sortValue struct {
	missing bool
	num     float64
	str     string
	isStr   bool
}

func (v sortValue) less(other sortValue) bool {
	if v.isStr {
		return v.str < other.str
	}
	return v.num < other.num
}

func numValue(v float64) sortValue { return sortValue{num: v} }

func strValue(v string) sortValue { return sortValue{str: strings.ToLower(v), isStr: true} }

func optionalValue(v *int) sortValue {
	if v == nil {
		return sortValue{missing: true}
	}
	return numValue(float64(*v))
}

var sortAccessors = map[LeadSortKey]func(domain.Lead) sortValue{
	SortByRerankedScore:    func(l domain.Lead) sortValue { return optionalValue(l.RerankedScore) },
	SortByInitialScore:     func(l domain.Lead) sortValue { return optionalValue(l.InitialScore) },
	SortByCreditScore:      func(l domain.Lead) sortValue { return numValue(float64(l.CreditScore)) },
	SortByIncome:           func(l domain.Lead) sortValue { return numValue(l.Income) },
	SortByEmail:            func(l domain.Lead) sortValue { return strValue(l.Email) },
	SortByPhoneNumber:      func(l domain.Lead) sortValue { return strValue(l.PhoneNumber) },
	SortByAgeGroup:         func(l domain.Lead) sortValue { return strValue(string(l.AgeGroup)) },
	SortByFamilyBackground: func(l domain.Lead) sortValue { return strValue(string(l.FamilyBackground)) },
	SortByCreatedAt:        func(l domain.Lead) sortValue { return numValue(float64(l.CreatedAt.UnixMicro())) },
}

// Package feasibility runs the pre-flight supply-vs-demand analysis
// before any construction is attempted: if the instance cannot possibly
// be satisfied, there is no point running the constructor or the
// evolutionary refiner against it.
package feasibility

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/classyard/timetable-engine/internal/catalog"
	"github.com/classyard/timetable-engine/internal/mask"
)

// Reason enumerates the possible causes of infeasibility.
type Reason string

const (
	ReasonSupplyShortfall           Reason = "subject_supply_below_demand"
	ReasonCourseOverCapacity        Reason = "course_demand_exceeds_capacity"
	ReasonSubjectNoQualifiedTeacher Reason = "subject_without_qualified_teacher"
	ReasonTeacherNoAvailability     Reason = "teacher_without_availability"
)

// Bottleneck names one concrete obstacle to feasibility.
type Bottleneck struct {
	Reason    Reason
	Detail    string
	SubjectID *int
	CourseID  *int
	TeacherID *int
}

// SupplyDemandRow is one line of the per-subject supply/demand table that
// rides along in the SolutionReport regardless of the verdict.
type SupplyDemandRow struct {
	SubjectID   int
	SubjectName string
	Demand      int
	Supply      int
}

// Result is the verdict of the Feasibility Analyzer.
type Result struct {
	Feasible    bool
	Table       []SupplyDemandRow
	Bottlenecks []Bottleneck
}

// Analyze computes supply, demand, and capacity for every subject and
// course in the snapshot and returns a verdict. It never mutates its
// inputs and performs no I/O.
func Analyze(s *catalog.Snapshot, m *mask.Masks) *Result {
	res := &Result{}

	qualifiedCount := make([]int, len(s.Subjects))
	for t := range s.Teachers {
		for subj := 0; subj < len(s.Subjects); subj++ {
			if m.TeacherSubject[t].Test(uint(subj)) {
				qualifiedCount[subj]++
			}
		}
	}

	subjectDemand := make([]int, len(s.Subjects))
	for subj, subject := range s.Subjects {
		demand := 0
		for c := range s.Courses {
			demand += s.CourseSubjectDemand[c][subj]
		}
		subjectDemand[subj] = demand
		supply := m.CountQualifiedAvailableSlots(subj)

		res.Table = append(res.Table, SupplyDemandRow{
			SubjectID:   s.SubjectID[subj],
			SubjectName: subject.Name,
			Demand:      demand,
			Supply:      supply,
		})

		if demand == 0 {
			continue
		}
		subjID := s.SubjectID[subj]
		switch {
		case qualifiedCount[subj] == 0:
			res.Bottlenecks = append(res.Bottlenecks, Bottleneck{
				Reason:    ReasonSubjectNoQualifiedTeacher,
				Detail:    fmt.Sprintf("subject %q (id %d) has demand %d but no qualified teacher", subject.Name, subjID, demand),
				SubjectID: &subjID,
			})
		case supply < demand:
			res.Bottlenecks = append(res.Bottlenecks, Bottleneck{
				Reason:    ReasonSupplyShortfall,
				Detail:    fmt.Sprintf("subject %q (id %d): demand %d exceeds supply %d", subject.Name, subjID, demand, supply),
				SubjectID: &subjID,
			})
		}
	}

	capacity := s.NumSlots
	for c, course := range s.Courses {
		total := lo.SumBy(s.CourseSubjectDemand[c], func(n int) int { return n })
		if total > capacity {
			courseID := s.CourseID[c]
			res.Bottlenecks = append(res.Bottlenecks, Bottleneck{
				Reason:   ReasonCourseOverCapacity,
				Detail:   fmt.Sprintf("course %q (id %d): demand %d exceeds capacity %d", course.Name, courseID, total, capacity),
				CourseID: &courseID,
			})
		}
	}

	for t, teacher := range s.Teachers {
		if m.TeacherAvailable[t].Count() > 0 {
			continue
		}
		hasDemandedQualification := false
		for subj := range s.Subjects {
			if m.TeacherSubject[t].Test(uint(subj)) && subjectDemand[subj] > 0 {
				hasDemandedQualification = true
				break
			}
		}
		if !hasDemandedQualification {
			continue
		}
		teacherID := s.TeacherID[t]
		res.Bottlenecks = append(res.Bottlenecks, Bottleneck{
			Reason:    ReasonTeacherNoAvailability,
			Detail:    fmt.Sprintf("teacher %q (id %d) has no available slots", teacher.Name, teacherID),
			TeacherID: &teacherID,
		})
	}

	res.Feasible = len(res.Bottlenecks) == 0
	return res
}

// Package validate implements the final validator: an independent
// re-check of every hard invariant on the best candidate before it is
// returned, so a bug anywhere upstream (construction, repair, crossover,
// mutation) cannot silently produce a success report with a broken
// timetable.
package validate

import (
	"fmt"

	"github.com/classyard/timetable-engine/internal/catalog"
	"github.com/classyard/timetable-engine/internal/mask"
	"github.com/classyard/timetable-engine/internal/solution"
)

// ViolationKind enumerates the invariant an individual Violation breaks.
type ViolationKind string

const (
	ViolationCourseOverlap   ViolationKind = "course_overlap"
	ViolationTeacherOverlap  ViolationKind = "teacher_overlap"
	ViolationAvailability    ViolationKind = "availability"
	ViolationQualification   ViolationKind = "qualification"
	ViolationCurriculum      ViolationKind = "curriculum"
	ViolationExactDemand     ViolationKind = "exact_demand"
	ViolationFixedRoom       ViolationKind = "fixed_room"
)

// Violation names one concrete broken invariant.
type Violation struct {
	Kind    ViolationKind
	Detail  string
	Course  *int
	Teacher *int
	Subject *int
}

// Validate re-checks every hard invariant against cand (full-week
// occupancy is a configurable soft target rather than a hard invariant,
// and is reported separately through the occupancy metric). It returns
// every violation found, nil meaning the candidate is valid.
func Validate(snap *catalog.Snapshot, masks *mask.Masks, cand *solution.Candidate) []Violation {
	var violations []Violation

	for slot := 0; slot < snap.NumSlots; slot++ {
		for t := range snap.Teachers {
			occupants := cand.TeacherOccupants(t, slot)
			if len(occupants) > 1 {
				teacherID := snap.TeacherID[t]
				violations = append(violations, Violation{
					Kind:    ViolationTeacherOverlap,
					Detail:  fmt.Sprintf("teacher %d double-booked in slot %d by %d courses", teacherID, slot, len(occupants)),
					Teacher: &teacherID,
				})
			}
		}
	}

	for course := range snap.Courses {
		for slot := 0; slot < snap.NumSlots; slot++ {
			cell := cand.At(course, slot)
			if cell.Subject == solution.Empty {
				continue
			}
			courseID := snap.CourseID[course]

			if !masks.TeacherAvailable[cell.Teacher].Test(uint(slot)) {
				teacherID := snap.TeacherID[cell.Teacher]
				violations = append(violations, Violation{
					Kind:    ViolationAvailability,
					Detail:  fmt.Sprintf("course %d slot %d: teacher %d not available", courseID, slot, teacherID),
					Course:  &courseID,
					Teacher: &teacherID,
				})
			}

			if !masks.TeacherSubject[cell.Teacher].Test(uint(cell.Subject)) &&
				!(snap.Subjects[cell.Subject].IsFiller && snap.Teachers[cell.Teacher].MayTeachFiller) {
				teacherID := snap.TeacherID[cell.Teacher]
				subjID := snap.SubjectID[cell.Subject]
				violations = append(violations, Violation{
					Kind:    ViolationQualification,
					Detail:  fmt.Sprintf("course %d slot %d: teacher %d not qualified for subject %d", courseID, slot, teacherID, subjID),
					Course:  &courseID,
					Teacher: &teacherID,
					Subject: &subjID,
				})
			}

			if snap.CourseSubjectDemand[course][cell.Subject] == 0 && !snap.Subjects[cell.Subject].IsFiller {
				subjID := snap.SubjectID[cell.Subject]
				violations = append(violations, Violation{
					Kind:    ViolationCurriculum,
					Detail:  fmt.Sprintf("course %d slot %d: subject %d not in course's required set", courseID, slot, subjID),
					Course:  &courseID,
					Subject: &subjID,
				})
			}

			if !subjectRequiresSpecialRoom(snap, cell.Subject) {
				fixedRoom := snap.CourseFixedRoom[course]
				if fixedRoom >= 0 && cell.Room != fixedRoom {
					violations = append(violations, Violation{
						Kind:   ViolationFixedRoom,
						Detail: fmt.Sprintf("course %d slot %d: expected fixed room %d, got %d", courseID, slot, snap.RoomID[fixedRoom], roomIDOrNone(snap, cell.Room)),
						Course: &courseID,
					})
				}
			}
		}
	}

	for course := range snap.Courses {
		for subj, required := range snap.CourseSubjectDemand[course] {
			if required == 0 {
				continue
			}
			have := cand.AssignedCount(course, subj)
			if have != required {
				courseID := snap.CourseID[course]
				subjID := snap.SubjectID[subj]
				violations = append(violations, Violation{
					Kind:    ViolationExactDemand,
					Detail:  fmt.Sprintf("course %d subject %d: expected %d assignments, got %d", courseID, subjID, required, have),
					Course:  &courseID,
					Subject: &subjID,
				})
			}
		}
	}

	return violations
}

func subjectRequiresSpecialRoom(snap *catalog.Snapshot, subj int) bool {
	return snap.Subjects[subj].RequiresSpecialRoom
}

func roomIDOrNone(snap *catalog.Snapshot, room int) int {
	if room < 0 || room >= len(snap.RoomID) {
		return -1
	}
	return snap.RoomID[room]
}

package model

import "testing"

func benchmarkRequest(courses, slotsPerCourse int) SolveRequest {
	request := SolveRequest{Courses: make([]Course, 0, courses)}
	for i := 0; i < courses; i++ {
		slots := make([]TimeSlot, 0, slotsPerCourse)
		for j := 0; j < slotsPerCourse; j++ {
			day := []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}[j%5]
			slots = append(slots, TimeSlot{Day: day, MinuteOfDay: (8+i)*60 + j/5*15})
		}
		request.Courses = append(request.Courses, Course{Name: string(rune('A' + i)), AvailableSlots: slots})
	}
	return request
}

func BenchmarkFindAllSolutions(b *testing.B) {
	request := benchmarkRequest(6, 8)
	solver := NewSolver()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := solver.FindAllSolutions(request, 50); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSolveFirst(b *testing.B) {
	request := benchmarkRequest(8, 10)
	solver := NewSolver()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := solver.Solve(request); err != nil {
			b.Fatal(err)
		}
	}
}

package models

// All returns every persisted model, in migration order.
func All() []interface{} {
	return []interface{}{
		&Student{},
		&Course{},
		&Lesson{},
		&LessonCompletion{},
		&Quiz{},
		&QuizAttempt{},
		&Assignment{},
		&Submission{},
		&Enrollment{},
		&ParentChild{},
		&StudyStat{},
		&ActivityLog{},
	}
}

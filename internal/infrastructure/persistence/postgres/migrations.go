package postgres

// Schemas are split per owning service so each service migrates only the
// tables it owns.

// StudentMigrations returns the Student Directory schema.
func StudentMigrations() []Migration {
	return []Migration{{Version: 1, Name: "create_students", UpSQL: migrationStudentsUp}}
}

// GradeMigrations returns the Grade Ledger schema.
func GradeMigrations() []Migration {
	return []Migration{
		{Version: 1, Name: "create_grades", UpSQL: migrationGradesUp},
		{Version: 2, Name: "create_notifications", UpSQL: migrationNotificationsUp},
	}
}

// CourseMigrations returns the Course Catalog schema.
func CourseMigrations() []Migration {
	return []Migration{{Version: 1, Name: "create_courses", UpSQL: migrationCoursesUp}}
}

const migrationStudentsUp = `
CREATE TABLE IF NOT EXISTS students (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(100) NOT NULL,
    email VARCHAR(255) NOT NULL,
    age INTEGER,
    major VARCHAR(100),
    gpa NUMERIC(3,2),

    CONSTRAINT valid_age CHECK (age IS NULL OR (age >= 16 AND age <= 100)),
    CONSTRAINT valid_gpa CHECK (gpa IS NULL OR (gpa >= 0 AND gpa <= 4))
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_students_email ON students(lower(email));
CREATE INDEX IF NOT EXISTS idx_students_name ON students(name);
CREATE INDEX IF NOT EXISTS idx_students_major ON students(major);
`

const migrationGradesUp = `
CREATE TABLE IF NOT EXISTS grades (
    id BIGSERIAL PRIMARY KEY,
    student_id BIGINT NOT NULL,
    course VARCHAR(200) NOT NULL,
    grade VARCHAR(2) NOT NULL,
    semester VARCHAR(50) NOT NULL,
    credits INTEGER NOT NULL DEFAULT 3,

    CONSTRAINT valid_credits CHECK (credits >= 1 AND credits <= 6)
);

-- student_id is not a foreign key: students live in another service.
CREATE INDEX IF NOT EXISTS idx_grades_student_id ON grades(student_id);
CREATE INDEX IF NOT EXISTS idx_grades_semester_course ON grades(semester DESC, course);
`

const migrationNotificationsUp = `
CREATE TABLE IF NOT EXISTS notifications (
    id UUID PRIMARY KEY,
    event VARCHAR(30) NOT NULL,
    target VARCHAR(20) NOT NULL,
    url TEXT NOT NULL,
    grade_id BIGINT,
    student_id BIGINT,
    status VARCHAR(10) NOT NULL,
    blocked BOOLEAN NOT NULL DEFAULT FALSE,
    error TEXT,
    http_status INTEGER,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    completed_at TIMESTAMP WITH TIME ZONE,

    CONSTRAINT valid_status CHECK (status IN ('pending', 'sent', 'failed'))
);

CREATE INDEX IF NOT EXISTS idx_notifications_created_at ON notifications(created_at DESC);
`

const migrationCoursesUp = `
CREATE TABLE IF NOT EXISTS courses (
    id BIGSERIAL PRIMARY KEY,
    code VARCHAR(20) NOT NULL UNIQUE,
    name VARCHAR(200) NOT NULL,
    credits INTEGER NOT NULL,
    instructor VARCHAR(100),
    semester VARCHAR(50),

    CONSTRAINT valid_credits CHECK (credits >= 1 AND credits <= 6)
);

CREATE INDEX IF NOT EXISTS idx_courses_semester ON courses(semester);
`

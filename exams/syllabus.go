package exams

// Subject is one exam subject and its ordered unit titles.
type Subject struct {
	Name  string
	Units []string
}

// Syllabus returns the code-defined subject/unit layout. Unit numbers are
// 1-based in storage; slice indexes here are 0-based.
func Syllabus() []Subject {
	return []Subject{
		{
			Name:  "Engineering Physics",
			Units: []string{"Wave Optics", "Crystallography & X-Ray", "Dielectric & Magnetic", "Quantum Mechanics", "Semiconductors"},
		},
		{
			Name:  "Linear Algebra & Calculus",
			Units: []string{"Linear Algebra", "Eigen Values", "Calculus & Mean Value", "Partial Differentiation", "Multiple Integrals"},
		},
		{
			Name:  "C Programming",
			Units: []string{"Target 1: Basics & Algorithms", "Target 2: Control Structures", "Target 3: Arrays & Pointers", "Target 4: Functions & Strings", "Target 5: Structures & Files"},
		},
		{
			Name:  "Civil & Mechanical",
			Units: []string{"Civil: Basics", "Civil: Surveying", "Civil: Transport/Water", "Mech: Materials & Mfg", "Mech: Thermal/Power"},
		},
		{
			Name:  "English",
			Units: []string{"Unit 1 (Self Study)", "Unit 2 (Self Study)", "Unit 3 (Self Study)", "Unit 4 (Self Study)", "Unit 5 (Self Study)"},
		},
	}
}

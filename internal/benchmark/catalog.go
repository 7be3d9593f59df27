package benchmark

// DefaultCatalog returns the workloads shipped in the examples directory,
// in report order. Each call returns a fresh slice.
func DefaultCatalog() []Case {
	sortRange := []string{"-1000000000", "1000000000"}
	withRange := func(n string) []string {
		return append([]string{n}, sortRange...)
	}

	return []Case{
		{"factorial.sr", []string{"10"}},
		{"factorial.sr", []string{"20"}},
		{"factorial.sr", []string{"21"}},
		{"factorial.sr", []string{"100"}},
		{"factorial.sr", []string{"5000"}},
		{"factorial_iterative.sr", []string{"10"}},
		{"factorial_iterative.sr", []string{"20"}},
		{"factorial_iterative.sr", []string{"21"}},
		{"factorial_iterative.sr", []string{"100"}},
		{"factorial_iterative.sr", []string{"5000"}},
		{"fibonacci.sr", []string{"10"}},
		{"fibonacci.sr", []string{"100"}},
		{"fibonacci.sr", []string{"1000"}},
		{"fibonacci.sr", []string{"10000"}},
		{"fibonacci.sr", []string{"100000"}},
		{"merge_sort.sr", withRange("1000")},
		{"quick_sort.sr", withRange("1000")},
		{"quick_sort.sr", withRange("10000")},
		{"quick_sort.sr", withRange("100000")},
		{"quick_sort.sr", withRange("1000000")},
		{"sieve.sr", []string{"10000"}},
		{"sieve.sr", []string{"100000"}},
		{"sieve.sr", []string{"1000000"}},
		{"sieve.sr", []string{"10000000"}},
		{"nbody.sr", nil},
		{"jit_arithmetic_identities.sr", []string{"50000"}},
		{"jit_arithmetic_identities.sr", []string{"60000"}},
		{"jit_arithmetic_identities.sr", []string{"70000"}},
		{"jit_arithmetic_identities.sr", []string{"80000"}},
		{"jit_arithmetic_identities.sr", []string{"90000"}},
		{"jit_dead_code_elimination.sr", []string{"500"}},
		{"jit_dead_code_elimination.sr", []string{"600"}},
		{"jit_dead_code_elimination.sr", []string{"700"}},
		{"jit_dead_code_elimination.sr", []string{"800"}},
		{"jit_dead_code_elimination.sr", []string{"900"}},
	}
}

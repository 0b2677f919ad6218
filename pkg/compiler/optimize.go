package compiler

// Optimize runs a single peephole pass that drops every LOAD immediately
// followed by a STORE, removing both instructions. Operands are not
// inspected, and the scan resumes after each removed pair rather than
// re-examining what came before it.
func Optimize(instructions []Instruction) []Instruction {
	optimized := make([]Instruction, 0, len(instructions))
	for i := 0; i < len(instructions); {
		if instructions[i].Op == LOAD && i+1 < len(instructions) && instructions[i+1].Op == STORE {
			i += 2
			continue
		}
		optimized = append(optimized, instructions[i])
		i++
	}
	return optimized
}

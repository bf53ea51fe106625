package taylor

import "fmt"

func throwf(s string, i ...interface{}) {
	panic(fmt.Sprintf(s, i...))
}


package gencases
import _ "embed"
import "testing"
import genfuzz "github.com/icfuzz/icfuzz/cmd/genfuzz/helper"
//go:embed input.ic
var input string
//go:embed expect.ic
var expect string
func Test_010_let_id_Confluence(t *testing.T) {
	genfuzz.CheckConfluence(t, "010_let_id", input, expect)
}

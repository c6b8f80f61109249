package main

import "github.com/arloliu/bpx/cmd/bpxd/modules"

func main() {
	modules.Execute()
}

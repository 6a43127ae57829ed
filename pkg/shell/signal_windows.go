package shell

import "os"

var stopSignals = []os.Signal{os.Interrupt}

func signalName(sig os.Signal) string { return sig.String() }

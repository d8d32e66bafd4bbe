// Package bridge connects the host to the optional extension module.
//
// Every operation follows the same pipeline: locate the module, resolve the
// capability from the fixed catalog, bind arguments from the call site's
// domain objects, invoke under a fault guard and coerce the result. Any
// stage can fail; failures come back as a *Fault whose Code tells the caller
// whether to fall back (ABSENT, SHAPE_MISMATCH) or just log (INVOCATION).
// No panic raised inside the module or the bridge escapes a public method.
package bridge

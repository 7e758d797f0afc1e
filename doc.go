// Package rvec provides the vector-data core of an R runtime for Go.
//
// Values live in execution contexts. A Context owns everything that would
// otherwise be process-global: the ALTREP class registry, the native upcall
// bridge, the random number generator, the warning channel, the symbol table,
// the global environment and the lazy-load database. Two contexts never share
// mutable state; values cross between them only through Import, which always
// copies.
//
// # Quick Start
//
//	ctx := context.Background()
//	rc, _ := rvec.New(ctx, rvec.WithSeed(42))
//	defer rc.Close()
//
//	x := vector.NewIntSeq(1, 1, 10)
//	err := rc.Eval(func() error {
//	    s, err := builtin.Sum(x, false, rc.Warner())
//	    ...
//	})
//
// # Failures
//
// Contract violations inside the core are panics. Eval recovers them and
// returns an error wrapping ErrContractViolation; failing ALTREP hooks wrap
// ErrHookFailed. Warnings never abort evaluation; read them with Warnings and
// clear them with ResetWarnings.
//
// # Configuration
//
//	cfg, _ := config.Load("rvec.yaml")
//	rc, _ := rvec.New(ctx, rvec.WithConfig(cfg))
//
// The configuration selects the logger, the resource limits and the blob
// store backing lazy-load databases (memory, local, s3 or minio).
package rvec

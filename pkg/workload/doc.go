// Package workload drives randomized allocate/release sequences against a
// set of heaps in lock-step and reports how each policy pair coped.
//
// Every step draws one request size and one release decision and applies
// both to every heap, so all heaps see the same request stream. The run ends
// for all heaps the first time any of them answers ErrNoSpace, or after
// Config.MaxSteps steps.
//
//	heaps, err := workload.Matrix(cfg.ArenaSize, search.Catalog(), release.Catalog(), nil)
//	if err != nil {
//	    return err
//	}
//	defer workload.CloseAll(heaps)
//
//	rep, err := workload.Run(ctx, cfg, heaps)
//	if err != nil {
//	    return err
//	}
//	rep.WriteText(os.Stdout)
package workload

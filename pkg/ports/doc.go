/*
Package ports defines the driven ports (interfaces) for the drover pipeline.

Each external system the pipeline touches is abstracted behind one
capability contract: Git for version control, Forge for the code host,
Stack for the stacked-branch manager. Every contract has exactly four
realizations with identical signatures: a live adapter that shells out
to the real program, an in-memory fake for deterministic tests, a
dry-run decorator that intercepts mutations, and an audit decorator that
logs every call. Call sites never branch on which realization they hold;
only the workflow environment assembly chooses.

The package also defines the supporting ports (Clock, Locker, Sink) and
the contract test suites that pin the shared semantics all realizations
of a capability must exhibit.
*/
package ports

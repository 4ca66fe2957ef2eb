/*
Package domain contains the core domain models for the drover pipeline.

It defines the workflow state threaded through the submit pipeline, the
step error taxonomy, the entities exchanged with the capability gateways
(pull requests, issues, branch status), and the sentinel values that make
"does not exist yet" a first-class result instead of an error. This
package is kept pure and free of external dependencies like I/O or
subprocess execution, following Hexagonal Architecture principles.

# Key Entities

  - State: the immutable value accumulating results as pipeline steps succeed.
  - StepError: the tagged failure value every step returns instead of panicking.
  - PullRequest, Issue, Divergence, TreeStatus: gateway result shapes.
  - PublishOutcome: the normalized result of either publish strategy.
*/
package domain

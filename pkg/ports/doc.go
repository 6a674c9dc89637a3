/*
Package ports defines the driven ports (interfaces) used around a compiled
model.

These interfaces decouple the pipeline from storage and coordination
backends, so the same build can run in a single process or across replicas.

# Key Interfaces

  - LayoutStore: persists the state-vector Layout of compiled models, so
    consumers (solvers, result readers) can map state slots back to variables.
  - DistributedLocker: serialises builds of the same model across instances.
*/
package ports

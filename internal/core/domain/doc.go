// Package domain contains the core entities of the learning-plan pipeline:
// documents, the units they are segmented into, topic candidates and canonical
// topics, ranked passages, and the persisted LearningPlan.
//
// Domain types carry no behaviour beyond small pure helpers and are never
// mutated after construction by the pipeline stages that consume them.
package domain

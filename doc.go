/*
Package multivoice emulates a 48-operator hybrid FM/PCM tone-generator
chip: 12 groups of 4 slots each, where a group's sync mode selects one of
four topologies (4-operator FM, two independent 2-operator FM pairs,
3-operator FM plus one PCM voice, or four independent PCM voices).

The core renders a synchronous, four-internal-channel audio stream from a
register write stream, matching the register surface, timer/status model
and fixed-point arithmetic of the original hardware. Host-facing concerns
(PCM ROM, IRQ delivery and logging) are expressed as the small
collaborator interfaces in interfaces.go; Chip itself owns none of them
beyond sane defaults. The fixed stereo down-mix of the four internal
channels is done by Chip.Update itself (mix.go).
*/
package multivoice

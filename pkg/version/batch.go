package version

// UpgradeDependencies walks a mapping of dependency name -> current
// declaration alongside a mapping of name -> latest known version, and
// returns the declarations that should change. Names missing from
// latestVersions, names whose declaration is not upgradeable, and names
// whose upgraded declaration is textually identical to the current one are
// omitted from the result.
func UpgradeDependencies(currentDependencies, latestVersions map[string]string) map[string]string {
	upgraded := make(map[string]string)
	for name, declaration := range currentDependencies {
		target, ok := latestVersions[name]
		if !ok {
			continue
		}
		if !ShouldUpgrade(declaration, target) {
			continue
		}
		next := UpgradeDeclaration(declaration, target)
		if next != declaration {
			upgraded[name] = next
		}
	}
	return upgraded
}
